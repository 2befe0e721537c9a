package aggregate

// CostItem is one calculator invocation. The payload is untyped until it has
// been parsed against the calculator's request shape.
type CostItem struct {
	Calculator string         `json:"module"`
	Payload    map[string]any `json:"properties"`
}

// CostPath is a labeled group of cost items whose carbon outputs are summed
// into one subtotal.
type CostPath struct {
	Title string     `json:"title"`
	Items []CostItem `json:"cost_items"`
}

// Request is a batch of cost paths to aggregate.
type Request struct {
	Paths []CostPath `json:"cost_paths"`
}

// ItemResult is the outcome of one executed cost item.
type ItemResult struct {
	Item     CostItem `json:"cost_item"`
	CarbonKg float64  `json:"carbon_kg"`
}

// PathResult is the outcome of one cost path.
type PathResult struct {
	Title         string       `json:"title"`
	TotalCarbonKg float64      `json:"total_carbon_kg"`
	Items         []ItemResult `json:"cost_items"`
}

// Response lists path results in the order of the retained request paths.
type Response struct {
	Paths []PathResult `json:"cost_paths"`
}

// TotalCarbonKg sums all path totals.
func (r Response) TotalCarbonKg() float64 {
	var total float64
	for _, p := range r.Paths {
		total += p.TotalCarbonKg
	}
	return total
}

// Path returns the result for the given title, if present.
func (r Response) Path(title string) (PathResult, bool) {
	for _, p := range r.Paths {
		if p.Title == title {
			return p, true
		}
	}
	return PathResult{}, false
}
