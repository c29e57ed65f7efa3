package services

import (
	"admin-app/models"
	"admin-app/repositories"

	"github.com/go-playground/validator"
)

// MenuInput is the validated payload for creating a menu node.
type MenuInput struct {
	Name string `json:"name" validate:"required,min=2"`
	Path string `json:"path"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

var menuValidate = validator.New()

// MenuService wraps the nested-set repository with input validation and the
// tree assembly the admin frontend consumes.
type MenuService struct {
	repo *repositories.MenuRepository
}

func NewMenuService(repo *repositories.MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) CreateRoot(input MenuInput, userID int) (*models.MenuNode, error) {
	if err := menuValidate.Struct(input); err != nil {
		return nil, err
	}
	node := &models.MenuNode{
		Name:      input.Name,
		Path:      input.Path,
		Icon:      input.Icon,
		Type:      input.Type,
		CreatedBy: userID,
	}
	return s.repo.CreateRoot(node)
}

func (s *MenuService) CreateAsLastChild(parentID int64, input MenuInput, userID int) (*models.MenuNode, error) {
	if err := menuValidate.Struct(input); err != nil {
		return nil, err
	}
	node := &models.MenuNode{
		Name:      input.Name,
		Path:      input.Path,
		Icon:      input.Icon,
		Type:      input.Type,
		CreatedBy: userID,
	}
	return s.repo.CreateAsLastChild(parentID, node)
}

func (s *MenuService) MoveAsFirstChild(nodeID, targetID int64) error {
	return s.repo.MoveAsFirstChild(nodeID, targetID)
}

func (s *MenuService) MoveAsPrevSibling(nodeID, targetID int64) error {
	return s.repo.MoveAsPrevSibling(nodeID, targetID)
}

func (s *MenuService) Delete(nodeID int64) error {
	return s.repo.Delete(nodeID)
}

func (s *MenuService) HardDelete(nodeID int64) error {
	return s.repo.HardDelete(nodeID)
}

func (s *MenuService) RebuildTree() error {
	return s.repo.RebuildTree()
}

// MenuTreeNode is the nested shape of one menu entry.
type MenuTreeNode struct {
	ID       int64           `json:"id,string"`
	Name     string          `json:"title"`
	Path     string          `json:"url"`
	Icon     string          `json:"icon"`
	Children []*MenuTreeNode `json:"items"`
}

// GetMenuTree assembles the active menu rows into their nested form. Rows
// arrive in left-boundary order, so a stack of open ancestors is enough.
func (s *MenuService) GetMenuTree() ([]*MenuTreeNode, error) {
	rows, err := s.repo.GetTree()
	if err != nil {
		return nil, err
	}

	var (
		roots []*MenuTreeNode
		stack []*models.MenuNode
		open  []*MenuTreeNode
	)
	for i := range rows {
		row := rows[i]
		if row.Status != models.MenuStatusActive {
			continue
		}

		for len(stack) > 0 && row.Lft > stack[len(stack)-1].Rgt {
			stack = stack[:len(stack)-1]
			open = open[:len(open)-1]
		}

		node := &MenuTreeNode{
			ID:       int64(row.ID),
			Name:     row.Name,
			Path:     row.Path,
			Icon:     row.Icon,
			Children: []*MenuTreeNode{},
		}
		if len(open) == 0 {
			roots = append(roots, node)
		} else {
			parent := open[len(open)-1]
			parent.Children = append(parent.Children, node)
		}

		stack = append(stack, &rows[i])
		open = append(open, node)
	}
	return roots, nil
}
