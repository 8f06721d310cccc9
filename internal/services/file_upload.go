package services

// FileUpload carries one multipart payload from the transport boundary
// through validation into storage. The whole payload is held in memory.
type FileUpload struct {
	Filename string
	MimeType string
	Size     int64 // declared size from the request, informational
	Data     []byte
}

// Empty reports whether there is no payload at all. A nil upload and a
// zero-byte upload are treated the same way.
func (u *FileUpload) Empty() bool {
	return u == nil || len(u.Data) == 0
}

func (u *FileUpload) payloadSize() int64 {
	return int64(len(u.Data))
}
