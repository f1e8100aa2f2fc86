package data

import "fmt"

// Identity is the (device id, inode number) pair read from an object's
// metadata. Two entries refer to the same filesystem object iff both
// components are equal.
type Identity struct {
	Device uint64 `json:"device"`
	Inode  uint64 `json:"inode"`
}

// Equal reports whether both identity components match.
func (id Identity) Equal(other Identity) bool {
	return id.Device == other.Device && id.Inode == other.Inode
}

// IsZero reports whether the identity carries no information.
// Implementations that cannot provide identity leave both components zero.
func (id Identity) IsZero() bool {
	return id.Device == 0 && id.Inode == 0
}

func (id Identity) String() string {
	return fmt.Sprintf("%d:%d", id.Device, id.Inode)
}
