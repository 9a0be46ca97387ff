package model

// GPUVendor identifies an accelerator vendor.
type GPUVendor string

const (
	GPUVendorNvidia GPUVendor = "nvidia"
	GPUVendorAMD    GPUVendor = "amd"
	GPUVendorIntel  GPUVendor = "intel"
)

// GPUVendors lists vendors in emission order.
var GPUVendors = []GPUVendor{GPUVendorNvidia, GPUVendorAMD, GPUVendorIntel}

// ResourceName returns the extended resource name (and taint key) of the vendor's device plugin.
func (v GPUVendor) ResourceName() string {
	switch v {
	case GPUVendorNvidia:
		return "nvidia.com/gpu"
	case GPUVendorAMD:
		return "amd.com/gpu"
	case GPUVendorIntel:
		return "gpu.intel.com/i915"
	}
	return ""
}

// Valid reports whether v is a known vendor.
func (v GPUVendor) Valid() bool { return v.ResourceName() != "" }

// Accelerator describes the GPUs attached to a preset.
type Accelerator struct {
	Vendor GPUVendor
	Count  int
	Memory int64 // per-unit memory in bytes
	Model  string
}

// Preset is a resolved compute profile.
type Preset struct {
	Name           string
	CPU            float64 // cores
	Memory         int64   // bytes
	Shm            bool
	Accelerators   []Accelerator
	ResourcePools  []string // available_resource_pool_names
	CreditsPerHour string   // decimal, informational
}

// Accelerator returns the accelerator block for vendor, or nil.
func (p *Preset) Accelerator(vendor GPUVendor) *Accelerator {
	for i := range p.Accelerators {
		if p.Accelerators[i].Vendor == vendor && p.Accelerators[i].Count > 0 {
			return &p.Accelerators[i]
		}
	}
	return nil
}

// GPUCount returns the number of units of vendor.
func (p *Preset) GPUCount(vendor GPUVendor) int {
	if a := p.Accelerator(vendor); a != nil {
		return a.Count
	}
	return 0
}

// TotalGPUCount sums units across vendors.
func (p *Preset) TotalGPUCount() int {
	n := 0
	for _, a := range p.Accelerators {
		n += a.Count
	}
	return n
}

// TotalVRAM returns the sum of memory x count over all accelerators, in bytes.
func (p *Preset) TotalVRAM() int64 {
	var total int64
	for _, a := range p.Accelerators {
		total += a.Memory * int64(a.Count)
	}
	return total
}
