package mounts

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/consul/api"

	"github.com/mwantia/treewalk"
	"github.com/mwantia/treewalk/data"
)

// ConsulMount provides read-only traversal of a Consul KV subtree.
// Directories are virtual and exist only as key prefixes; every stored key
// is a file. Consul keeps no timestamps, so modify times are zero.
type ConsulMount struct {
	kv     *api.KV
	prefix string
	device uint64
}

// NewConsul creates a mount over the KV subtree below prefix.
func NewConsul(cfg *api.Config, prefix string) (*ConsulMount, error) {
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	prefix = strings.Trim(prefix, "/")

	return &ConsulMount{
		kv:     client.KV(),
		prefix: prefix,
		device: xxhash.Sum64String(cfg.Address + "/" + prefix),
	}, nil
}

// Name returns the identifier name defined for this filesystem.
func (cm *ConsulMount) Name() string {
	return "consul"
}

// WorkingDirectory returns "/"; the KV namespace has no process context.
func (cm *ConsulMount) WorkingDirectory(ctx context.Context) (string, error) {
	return "/", nil
}

// Stat returns metadata for the key or virtual directory at the given path.
func (cm *ConsulMount) Stat(ctx context.Context, p string) (*data.FileStat, error) {
	p = data.ToAbsolutePath(p)
	if p == "/" {
		return cm.dirStat(p), nil
	}

	key := cm.buildKey(p)

	pair, _, err := cm.kv.Get(key, nil)
	if err != nil {
		return nil, err
	}
	if pair != nil {
		return cm.fileStat(p, int64(len(pair.Value))), nil
	}

	// No stored key; the path is a virtual directory if any deeper key
	// exists.
	keys, _, err := cm.kv.Keys(key+"/", "", nil)
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 {
		return cm.dirStat(p), nil
	}

	return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
}

// List returns the direct children of the virtual directory at the given
// path, in key order.
func (cm *ConsulMount) List(ctx context.Context, p string) ([]*data.FileStat, error) {
	p = data.ToAbsolutePath(p)

	prefix := cm.buildKey(p)
	if prefix != "" {
		prefix += "/"
	}

	// The separator folds deeper keys into unique child prefixes.
	keys, _, err := cm.kv.Keys(prefix, "/", nil)
	if err != nil {
		return nil, err
	}

	var stats []*data.FileStat
	for _, key := range keys {
		if key == prefix {
			continue
		}

		rel := strings.TrimPrefix(key, prefix)
		if strings.HasSuffix(rel, "/") {
			childPath := path.Join(p, strings.TrimSuffix(rel, "/"))
			stats = append(stats, cm.dirStat(childPath))
			continue
		}

		childPath := path.Join(p, rel)

		pair, _, err := cm.kv.Get(key, nil)
		if err != nil || pair == nil {
			return nil, fmt.Errorf("%w: '%s': %v", treewalk.ErrCorruptEntry, childPath, err)
		}

		stats = append(stats, cm.fileStat(childPath, int64(len(pair.Value))))
	}

	return stats, nil
}

// buildKey maps a namespace path onto the KV key space.
func (cm *ConsulMount) buildKey(p string) string {
	key := strings.TrimPrefix(data.ToAbsolutePath(p), "/")
	if cm.prefix == "" {
		return key
	}
	if key == "" {
		return cm.prefix
	}

	return cm.prefix + "/" + key
}

// fileStat synthesizes a FileStat for a stored key.
func (cm *ConsulMount) fileStat(p string, size int64) *data.FileStat {
	stat := data.NewFileStat(p, size, 0644)
	stat.Device = cm.device
	stat.Inode = xxhash.Sum64String(p)

	return stat
}

// dirStat synthesizes a FileStat for a virtual directory.
func (cm *ConsulMount) dirStat(p string) *data.FileStat {
	stat := data.NewDirectoryStat(p, 0755)
	stat.Device = cm.device
	stat.Inode = xxhash.Sum64String(p + "/")

	return stat
}
