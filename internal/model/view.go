package model

// Filter narrows a view. Empty fields match everything.
type Filter struct {
	Search  string `json:"search,omitempty"`
	Project string `json:"project,omitempty"`
}

// Bucket identifies one of the derived item groups.
type Bucket int

const (
	BucketScheduled Bucket = iota
	BucketUnscheduled
	BucketCompleted
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketScheduled, BucketUnscheduled, BucketCompleted}

func (b Bucket) String() string {
	switch b {
	case BucketScheduled:
		return "Scheduled"
	case BucketUnscheduled:
		return "Not Scheduled"
	case BucketCompleted:
		return "Completed"
	}
	return "Unknown"
}

// EmptyText is shown when a bucket has nothing to list.
func (b Bucket) EmptyText() string {
	switch b {
	case BucketScheduled:
		return "No scheduled action items."
	case BucketUnscheduled:
		return "No unscheduled action items."
	case BucketCompleted:
		return "No completed items yet."
	}
	return ""
}

// View holds the filtered and sorted buckets derived from a collection.
type View struct {
	Scheduled   []Item `json:"scheduled"`
	Unscheduled []Item `json:"unscheduled"`
	Completed   []Item `json:"completed"`
}

// Bucket returns the items of one bucket.
func (v View) Bucket(b Bucket) []Item {
	switch b {
	case BucketScheduled:
		return v.Scheduled
	case BucketUnscheduled:
		return v.Unscheduled
	case BucketCompleted:
		return v.Completed
	}
	return nil
}

// Len returns the number of items across all buckets.
func (v View) Len() int {
	return len(v.Scheduled) + len(v.Unscheduled) + len(v.Completed)
}
