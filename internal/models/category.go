package models

import (
	"strings"

	"github.com/mosiqa/backend/internal/apperrors"
)

// MusicCategory is the closed set of track categories. The stored value is
// the lowercase label, which is also the wire representation.
type MusicCategory string

const (
	CategoryPop        MusicCategory = "pop"
	CategoryRock       MusicCategory = "rock"
	CategoryRap        MusicCategory = "rap"
	CategoryJazz       MusicCategory = "jazz"
	CategoryClassical  MusicCategory = "classical"
	CategoryElectronic MusicCategory = "electronic"
	CategoryRnB        MusicCategory = "rnb"
	CategoryCountry    MusicCategory = "country"
	CategoryMetal      MusicCategory = "metal"
	CategoryIndie      MusicCategory = "indie"
	CategoryOther      MusicCategory = "other"
)

var musicCategories = map[MusicCategory]struct{}{
	CategoryPop:        {},
	CategoryRock:       {},
	CategoryRap:        {},
	CategoryJazz:       {},
	CategoryClassical:  {},
	CategoryElectronic: {},
	CategoryRnB:        {},
	CategoryCountry:    {},
	CategoryMetal:      {},
	CategoryIndie:      {},
	CategoryOther:      {},
}

// ParseMusicCategory is the only way category tokens enter the system.
// Matching is case-insensitive against the closed label set.
func ParseMusicCategory(token string) (MusicCategory, error) {
	category := MusicCategory(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := musicCategories[category]; !ok {
		return "", apperrors.Validationf("Unknown category: %s", token)
	}
	return category, nil
}

func (c MusicCategory) Valid() bool {
	_, ok := musicCategories[c]
	return ok
}
