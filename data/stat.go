package data

import (
	"encoding/json"
	"time"
)

// FileStat is the metadata record for one filesystem object as reported by a
// FileSystem implementation. Every stat carries the object's identity
// (device id + inode number) so that callers can recognize the same object
// across separate listings.
type FileStat struct {
	// Unique record identifier
	ID string `json:"id"`

	// Absolute path within the filesystem namespace
	Path string `json:"path"`

	// Base name of the object
	Name string `json:"name"`

	// Type of object (file, directory, etc.)
	Type FileType `json:"type"`

	// Unix-style mode and permissions
	Mode FileMode `json:"mode"`

	// Size in bytes (0 for directories)
	Size int64 `json:"size"`

	// Device identifier of the filesystem holding the object
	Device uint64 `json:"device"`

	// Inode number within the device
	Inode uint64 `json:"inode"`

	ModifyTime time.Time `json:"modify_time"`
	CreateTime time.Time `json:"create_time"`
}

// Identity returns the (device, inode) pair identifying this object.
func (fs *FileStat) Identity() Identity {
	return Identity{
		Device: fs.Device,
		Inode:  fs.Inode,
	}
}

// IsDir returns true if this object is a directory.
func (fs *FileStat) IsDir() bool {
	return fs.Type == FileTypeDirectory
}

// IsFile returns true if this object is a regular file.
func (fs *FileStat) IsFile() bool {
	return fs.Type == FileTypeFile
}

// IsSymlink returns true if this object is a symbolic link.
func (fs *FileStat) IsSymlink() bool {
	return fs.Type == FileTypeSymlink
}

// Clone creates a copy of the stat.
func (fs *FileStat) Clone() *FileStat {
	clone := *fs
	return &clone
}

// Marshal provides JSON serialization for FileStat.
func (fs *FileStat) Marshal() ([]byte, error) {
	return json.Marshal(fs)
}

// Unmarshal provides JSON deserialization for FileStat.
func (fs *FileStat) Unmarshal(data []byte) error {
	return json.Unmarshal(data, &fs)
}
