package session

// dedupWindow remembers recently seen inbound message ids so
// re-deliveries never reach the collaborator twice. Not safe for
// concurrent use; the engine mutex guards it.
type dedupWindow struct {
	capacity   int
	evictBatch int
	order      []string
	present    map[string]struct{}
}

func newDedupWindow(capacity, evictBatch int) *dedupWindow {
	return &dedupWindow{
		capacity:   capacity,
		evictBatch: evictBatch,
		present:    make(map[string]struct{}, capacity),
	}
}

func (d *dedupWindow) seen(id string) bool {
	_, ok := d.present[id]
	return ok
}

// observe records id, evicting the oldest batch when over capacity.
func (d *dedupWindow) observe(id string) {
	if _, ok := d.present[id]; ok {
		return
	}
	d.order = append(d.order, id)
	d.present[id] = struct{}{}
	if len(d.order) > d.capacity {
		n := d.evictBatch
		if n > len(d.order) {
			n = len(d.order)
		}
		for _, old := range d.order[:n] {
			delete(d.present, old)
		}
		d.order = append(d.order[:0], d.order[n:]...)
	}
}

func (d *dedupWindow) len() int {
	return len(d.order)
}
