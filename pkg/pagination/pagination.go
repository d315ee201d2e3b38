package pagination

const (
	// DefaultSize is the standard page size when none is provided.
	DefaultSize = 20
	// MaxSize caps how many rows any page query can request.
	MaxSize = 100
)

// Params holds page/size pagination inputs from controllers.
type Params struct {
	Page int
	Size int
}

// Normalize clamps the page to zero and the size into [1, MaxSize].
func (p Params) Normalize() Params {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.Page * n.Size
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().Size
}

// Page describes one page of results plus enough metadata for clients to
// keep paging.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage assembles a Page from a fetched slice and the total row count.
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	n := params.Normalize()
	pages := total / int64(n.Size)
	if total%int64(n.Size) != 0 {
		pages++
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       n.Page,
		Size:       n.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}
