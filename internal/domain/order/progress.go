package order

// Progress is the tracking bar derived from an order status
type Progress struct {
	Percent       int    `json:"percent"`
	Color         string `json:"color"`
	Indeterminate bool   `json:"indeterminate"`
}

var progressByStatus = map[Status]Progress{
	StatusPending:    {Percent: 25, Color: "yellow"},
	StatusProcessing: {Percent: 50, Color: "blue"},
	StatusShipped:    {Percent: 75, Color: "orange"},
	StatusDelivered:  {Percent: 100, Color: "green"},
}

// FallbackProgress is used for any status without a fixed fill
var FallbackProgress = Progress{Percent: 0, Color: "gray", Indeterminate: true}

// ProgressOf maps a status to its tracking bar. It is total: unknown,
// cancelled and empty statuses all map to FallbackProgress.
func ProgressOf(s Status) Progress {
	if p, ok := progressByStatus[s]; ok {
		return p
	}
	return FallbackProgress
}
