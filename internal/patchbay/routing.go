package patchbay

import "sync"

// routing holds the hardware channel lists feeding and fed by the rack's
// two engine ports. The audio thread only ever TryLocks it.
type routing struct {
	mu   sync.Mutex
	in1  []int
	in2  []int
	out1 []int
	out2 []int
}

func (r *routing) list(port int) *[]int {
	switch port {
	case PortAudioIn1:
		return &r.in1
	case PortAudioIn2:
		return &r.in2
	case PortAudioOut1:
		return &r.out1
	case PortAudioOut2:
		return &r.out2
	}
	return nil
}

func (r *routing) add(port, channel int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := r.list(port)
	for _, c := range *l {
		if c == channel {
			return false
		}
	}
	*l = append(*l, channel)
	return true
}

func (r *routing) remove(port, channel int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := r.list(port)
	for i, c := range *l {
		if c == channel {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return
		}
	}
}

func (r *routing) snapshot() (in1, in2, out1, out2 []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.in1...), append([]int(nil), r.in2...),
		append([]int(nil), r.out1...), append([]int(nil), r.out2...)
}

func (r *routing) clear() {
	r.mu.Lock()
	r.in1, r.in2, r.out1, r.out2 = nil, nil, nil, nil
	r.mu.Unlock()
}

// MixInputs sums the hardware captures connected to each engine input into
// dst, which is zeroed first. It returns false, leaving dst silent, when the
// routing is being edited.
func (g *Graph) MixInputs(dst [2][]float32, hw [][]float32, frames uint32) bool {
	clear(dst[0][:frames])
	clear(dst[1][:frames])

	r := &g.routing
	if !r.mu.TryLock() {
		return false
	}
	defer r.mu.Unlock()

	mix(dst[0][:frames], hw, r.in1)
	mix(dst[1][:frames], hw, r.in2)
	return true
}

// SpreadOutputs adds each engine output into the playback channels connected
// to it. It returns false, writing nothing, when the routing is being edited.
func (g *Graph) SpreadOutputs(hw [][]float32, src [2][]float32, frames uint32) bool {
	r := &g.routing
	if !r.mu.TryLock() {
		return false
	}
	defer r.mu.Unlock()

	for _, c := range r.out1 {
		if c < len(hw) {
			addInto(hw[c][:frames], src[0][:frames])
		}
	}
	for _, c := range r.out2 {
		if c < len(hw) {
			addInto(hw[c][:frames], src[1][:frames])
		}
	}
	return true
}

func mix(dst []float32, hw [][]float32, channels []int) {
	for _, c := range channels {
		if c < len(hw) {
			addInto(dst, hw[c][:len(dst)])
		}
	}
}

func addInto(dst, src []float32) {
	for i := range dst {
		dst[i] += src[i]
	}
}
