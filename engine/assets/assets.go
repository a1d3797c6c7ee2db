package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/emberengine/ember/engine/core"
)

// ShaderInfo is one indexed compiled shader binary.
type ShaderInfo struct {
	Path     string
	Modified time.Time
}

// ShaderWatcher indexes the compiled shader binaries under a directory and
// reports changes on a channel, so the application can schedule pipeline
// reloads without polling the filesystem.
type ShaderWatcher struct {
	shaders map[string]ShaderInfo

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan string
}

func NewShaderWatcher() (*ShaderWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &ShaderWatcher{
		shaders:  make(map[string]ShaderInfo),
		fsnotify: fsWatch,
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
	}, nil
}

// Initialize indexes shaderDir recursively and starts watching it.
func (sw *ShaderWatcher) Initialize(shaderDir string) error {
	if sw.isClosed {
		return errors.New("shader watcher already closed")
	}
	go sw.start()
	return sw.watchRecursive(shaderDir)
}

// Changes delivers the paths of shader binaries that appeared or changed.
func (sw *ShaderWatcher) Changes() <-chan string {
	return sw.changes
}

// Shaders returns a snapshot of the indexed binaries.
func (sw *ShaderWatcher) Shaders() []ShaderInfo {
	sw.mutex.RLock()
	defer sw.mutex.RUnlock()
	out := make([]ShaderInfo, 0, len(sw.shaders))
	for _, info := range sw.shaders {
		out = append(out, info)
	}
	return out
}

// Close stops the watch goroutine and the filesystem watcher.
func (sw *ShaderWatcher) Close() {
	if sw.isClosed {
		return
	}
	sw.isClosed = true
	close(sw.done)
}

func (sw *ShaderWatcher) start() {
	for {
		select {
		case e := <-sw.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					sw.watchRecursive(e.Name)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if sw.indexShader(e.Name) {
					select {
					case sw.changes <- e.Name:
					default:
						core.LogWarn("shader change channel full, dropping %s", e.Name)
					}
				}
			}
			if e.Op&fsnotify.Remove != 0 {
				sw.removeShader(e.Name)
				sw.fsnotify.Remove(e.Name)
			}

		case e := <-sw.fsnotify.Errors:
			if e != nil {
				core.LogError("shader watcher: %s", e.Error())
			}

		case <-sw.done:
			sw.fsnotify.Close()
			close(sw.changes)
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch
// list and indexes the shader binaries already present.
func (sw *ShaderWatcher) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return sw.fsnotify.Add(walkPath)
		}
		sw.indexShader(walkPath)
		return nil
	})
}

func (sw *ShaderWatcher) indexShader(path string) bool {
	if filepath.Ext(path) != ".spv" {
		return false
	}
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	sw.shaders[path] = ShaderInfo{
		Path:     path,
		Modified: time.Now(),
	}
	return true
}

func (sw *ShaderWatcher) removeShader(path string) {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	delete(sw.shaders, path)
}
