// AngelaMos | 2026
// dto.go

package word

type CreateWordRequest struct {
	Spelling string  `json:"spelling" validate:"required"`
	Meaning  string  `json:"meaning"  validate:"required"`
	Tags     []int64 `json:"tags"`
}

type EditWordRequest struct {
	ID       int64   `json:"id"       validate:"required"`
	Spelling string  `json:"spelling" validate:"required"`
	Meaning  string  `json:"meaning"  validate:"required"`
	Tags     []int64 `json:"tags"`
}

type ReviewWordRequest struct {
	ID    int64 `json:"id"    validate:"required"`
	Level int   `json:"level" validate:"required"`
}

type DeleteWordRequest struct {
	ID int64 `json:"id" validate:"required"`
}
