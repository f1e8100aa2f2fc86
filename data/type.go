package data

// FileType identifies the type of object in the filesystem.
type FileType int

// File type constants matching common Unix file types.
const (
	FileTypeFile      FileType = iota // Regular file
	FileTypeDirectory                 // Directory
	FileTypeSymlink                   // Symbolic link
	FileTypeDevice                    // Device file
	FileTypeSocket                    // Unix socket
)
