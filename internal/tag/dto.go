// AngelaMos | 2026
// dto.go

package tag

type CreateTagRequest struct {
	Name string `json:"name" validate:"required"`
}

type EditTagRequest struct {
	ID   int64  `json:"id"   validate:"required"`
	Name string `json:"name" validate:"required"`
}

type DeleteTagRequest struct {
	ID int64 `json:"id" validate:"required"`
}
