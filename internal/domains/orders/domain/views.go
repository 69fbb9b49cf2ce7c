package domain

// Pending returns requests still waiting for a staff decision, in snapshot order.
func Pending(snapshot []*InventoryRequest) []*InventoryRequest {
	return filter(snapshot, func(r *InventoryRequest) bool {
		return r.Lifecycle.State == StatePending
	})
}

// AwaitingDispatch returns accepted requests whose drivers have not been called.
func AwaitingDispatch(snapshot []*InventoryRequest) []*InventoryRequest {
	return filter(snapshot, func(r *InventoryRequest) bool {
		return r.Lifecycle.State == StateAwaitingDispatch
	})
}

// Historical returns rejected and dispatched requests.
func Historical(snapshot []*InventoryRequest) []*InventoryRequest {
	return filter(snapshot, func(r *InventoryRequest) bool {
		return r.Lifecycle.State.Terminal()
	})
}

func filter(snapshot []*InventoryRequest, keep func(*InventoryRequest) bool) []*InventoryRequest {
	out := make([]*InventoryRequest, 0, len(snapshot))
	for _, r := range snapshot {
		if r != nil && keep(r) {
			out = append(out, r)
		}
	}
	return out
}
