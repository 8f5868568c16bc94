package render

import (
	"fmt"

	"github.com/gogpu/g2d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BindingType is the kind of resource a binding slot accepts.
type BindingType uint8

const (
	// BindingUniformBuffer accepts a *UniformBuffer.
	BindingUniformBuffer BindingType = iota
	// BindingSampledTexture accepts a *Texture or *Framebuffer.
	BindingSampledTexture
	// BindingSampler accepts a *Sampler.
	BindingSampler
)

// String returns the binding type name.
func (t BindingType) String() string {
	switch t {
	case BindingUniformBuffer:
		return "UniformBuffer"
	case BindingSampledTexture:
		return "SampledTexture"
	case BindingSampler:
		return "Sampler"
	default:
		return fmt.Sprintf("BindingType(%d)", t)
	}
}

// ShaderStage is a set of shader stages that read a binding.
type ShaderStage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex ShaderStage = 1 << iota
	// StageFragment is the fragment stage.
	StageFragment
)

// Binding declares one slot of a binding group layout.
type Binding struct {
	Type  BindingType
	Stage ShaderStage
}

// Set is the ordered slot list of one binding group. Slot i is bound at
// shader binding i of the group.
type Set []Binding

// Bindable is a resource that can fill a binding slot: *UniformBuffer,
// *Texture, *Framebuffer or *Sampler.
type Bindable interface {
	bindingType() BindingType
	bindGroupEntry(binding uint32) gputypes.BindGroupEntry
}

// BindingGroupLayout is the layout of binding group number Index of a
// pipeline.
type BindingGroupLayout struct {
	device *Device
	layout hal.BindGroupLayout
	index  uint32
	slots  Set
}

// Index returns the group number the layout is bound at.
func (l *BindingGroupLayout) Index() uint32 { return l.index }

// Size returns the number of slots.
func (l *BindingGroupLayout) Size() int { return len(l.slots) }

// Slots returns a copy of the declared slots.
func (l *BindingGroupLayout) Slots() Set { return append(Set(nil), l.slots...) }

// Destroy releases the layout.
func (l *BindingGroupLayout) Destroy() {
	if l.layout == nil {
		return
	}
	l.device.lock()
	defer l.device.mu.Unlock()
	l.device.device.DestroyBindGroupLayout(l.layout)
	l.layout = nil
}

// CreateBindingGroupLayout creates the layout of binding group index.
func (d *Device) CreateBindingGroupLayout(index uint32, slots Set) (*BindingGroupLayout, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, len(slots))
	for i, s := range slots {
		e := gputypes.BindGroupLayoutEntry{
			Binding: uint32(i), //nolint:gosec // slot counts are tiny
		}
		if s.Stage&StageVertex != 0 {
			e.Visibility |= gputypes.ShaderStageVertex
		}
		if s.Stage&StageFragment != 0 {
			e.Visibility |= gputypes.ShaderStageFragment
		}
		switch s.Type {
		case BindingUniformBuffer:
			e.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
		case BindingSampledTexture:
			e.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		case BindingSampler:
			e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
		default:
			panic(fmt.Sprintf("render: unknown binding type %v", s.Type))
		}
		entries[i] = e
	}

	d.lock()
	defer d.mu.Unlock()
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   d.label(fmt.Sprintf("binding_layout_%d", index)),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create binding group layout %d: %w", index, err)
	}
	return &BindingGroupLayout{device: d, layout: layout, index: index, slots: append(Set(nil), slots...)}, nil
}

// BindingGroup is a concrete set of resources matching a
// BindingGroupLayout.
type BindingGroup struct {
	device *Device
	group  hal.BindGroup
	index  uint32
}

// Index returns the group number the binding group is bound at.
func (g *BindingGroup) Index() uint32 { return g.index }

// Destroy releases the binding group. The bound resources are not
// affected.
func (g *BindingGroup) Destroy() {
	if g.group == nil {
		return
	}
	g.device.lock()
	defer g.device.mu.Unlock()
	g.device.device.DestroyBindGroup(g.group)
	g.group = nil
}

// CreateBindingGroup binds resources to the slots of layout, in order.
//
// It panics if the number of resources differs from the layout's slot
// count, or if a resource does not match its slot type. Both are contract
// violations that would otherwise corrupt rendering silently.
func (d *Device) CreateBindingGroup(layout *BindingGroupLayout, resources ...Bindable) (*BindingGroup, error) {
	if len(resources) != len(layout.slots) {
		panic(fmt.Sprintf("render: binding group %d expects %d resources, got %d",
			layout.index, len(layout.slots), len(resources)))
	}
	entries := make([]gputypes.BindGroupEntry, len(resources))
	for i, r := range resources {
		if r.bindingType() != layout.slots[i].Type {
			panic(fmt.Sprintf("render: binding group %d slot %d expects %v, got %v",
				layout.index, i, layout.slots[i].Type, r.bindingType()))
		}
		entries[i] = r.bindGroupEntry(uint32(i)) //nolint:gosec // slot counts are tiny
	}

	d.lock()
	defer d.mu.Unlock()
	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   d.label(fmt.Sprintf("binding_group_%d", layout.index)),
		Layout:  layout.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create binding group %d: %w", layout.index, err)
	}
	g2d.Logger().Debug("render: binding group created", "index", layout.index, "slots", len(entries))
	return &BindingGroup{device: d, group: group, index: layout.index}, nil
}
