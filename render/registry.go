package render

import (
	"fmt"
	"sync"
)

// TextureID identifies a texture in a TextureRegistry. The zero ID is
// never issued.
type TextureID uint32

// TextureRegistry maps names to textures so that scenes and tools can
// refer to them symbolically. It is safe for concurrent use.
type TextureRegistry struct {
	mu     sync.RWMutex
	next   TextureID
	byID   map[TextureID]*Texture
	byName map[string]TextureID
	names  map[TextureID]string
}

// NewTextureRegistry returns an empty registry.
func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{
		byID:   make(map[TextureID]*Texture),
		byName: make(map[string]TextureID),
		names:  make(map[TextureID]string),
	}
}

// Register adds tex under name and returns its ID. It panics if name is
// already taken.
func (r *TextureRegistry) Register(name string, tex *Texture) TextureID {
	if tex == nil {
		panic("render: registering nil texture")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[name]; dup {
		panic(fmt.Sprintf("render: texture %q already registered", name))
	}
	r.next++
	id := r.next
	r.byID[id] = tex
	r.byName[name] = id
	r.names[id] = name
	return id
}

// Get returns the texture with the given ID.
func (r *TextureRegistry) Get(id TextureID) (*Texture, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	return t, ok
}

// Lookup returns the ID registered under name.
func (r *TextureRegistry) Lookup(name string) (TextureID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	return id, ok
}

// Remove drops id from the registry and returns its texture without
// destroying it. IDs are not reused.
func (r *TextureRegistry) Remove(id TextureID) (*Texture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byName, r.names[id])
	delete(r.names, id)
	delete(r.byID, id)
	return t, true
}

// Len returns the number of registered textures.
func (r *TextureRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Destroy destroys every registered texture and empties the registry.
func (r *TextureRegistry) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byID {
		t.Destroy()
	}
	clear(r.byID)
	clear(r.byName)
	clear(r.names)
}
