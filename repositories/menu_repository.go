package repositories

import (
	"admin-app/idgen"
	"admin-app/models"
	"admin-app/nestedset"
	"admin-app/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MenuRepository maintains the nested-set menu table of one tenant database.
//
// Every mutation loads the full node snapshot under a row lock, applies the
// boundary arithmetic in memory via the nestedset package and writes the
// changed rows back inside the same transaction. Either the whole shift
// sequence commits or none of it does.
type MenuRepository struct {
	DB       *gorm.DB
	MaxLevel int
}

func NewMenuRepository(DB *gorm.DB, maxLevel int) *MenuRepository {
	return &MenuRepository{DB: DB, MaxLevel: maxLevel}
}

// loadTree reads all menu rows for update and builds the in-memory snapshot.
func (r *MenuRepository) loadTree(tx *gorm.DB) (*nestedset.Tree, error) {
	var rows []models.MenuNode
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("lft asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	nodes := make([]nestedset.Node, len(rows))
	for i, row := range rows {
		nodes[i] = nestedset.Node{
			ID:       int64(row.ID),
			ParentID: int64(row.ParentID),
			Lft:      row.Lft,
			Rgt:      row.Rgt,
			Level:    row.Level,
			Ord:      row.MenuOrder,
		}
	}
	return nestedset.NewTree(r.MaxLevel, nodes), nil
}

// writeChanges persists every node the operation touched, excluding newID
// which is inserted as a full row by the caller.
func (r *MenuRepository) writeChanges(tx *gorm.DB, tree *nestedset.Tree, newID int64) error {
	for _, n := range tree.Changed() {
		if n.ID == newID {
			continue
		}
		err := tx.Model(&models.MenuNode{}).Where("id = ?", n.ID).Updates(map[string]interface{}{
			"lft":        n.Lft,
			"rgt":        n.Rgt,
			"level":      n.Level,
			"parent_id":  n.ParentID,
			"menu_order": n.Ord,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateRoot appends a new top-level menu after the current maximum right
// boundary.
func (r *MenuRepository) CreateRoot(data *models.MenuNode) (*models.MenuNode, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		tree, err := r.loadTree(tx)
		if err != nil {
			return err
		}

		id := idgen.GenerateID()
		planned, err := tree.InsertRoot(id)
		if err != nil {
			return err
		}

		data.ID = types.SnowflakeID(id)
		data.ParentID = 0
		data.Lft = planned.Lft
		data.Rgt = planned.Rgt
		data.Level = planned.Level
		data.MenuOrder = planned.Ord
		data.Status = models.MenuStatusActive
		return tx.Create(data).Error
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// CreateAsLastChild inserts the new node as the last child of parent,
// shifting the boundaries of everything at or past the parent's right edge.
func (r *MenuRepository) CreateAsLastChild(parentID int64, data *models.MenuNode) (*models.MenuNode, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		tree, err := r.loadTree(tx)
		if err != nil {
			return err
		}

		id := idgen.GenerateID()
		planned, err := tree.InsertLastChild(parentID, id)
		if err != nil {
			return err
		}

		if err := r.writeChanges(tx, tree, id); err != nil {
			return err
		}

		data.ID = types.SnowflakeID(id)
		data.ParentID = types.SnowflakeID(parentID)
		data.Lft = planned.Lft
		data.Rgt = planned.Rgt
		data.Level = planned.Level
		data.MenuOrder = planned.Ord
		data.Status = models.MenuStatusActive
		return tx.Create(data).Error
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// MoveAsFirstChild relocates the subtree under nodeID to be the first child
// of targetID.
func (r *MenuRepository) MoveAsFirstChild(nodeID, targetID int64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		tree, err := r.loadTree(tx)
		if err != nil {
			return err
		}
		if err := tree.MoveAsFirstChild(nodeID, targetID); err != nil {
			return err
		}
		return r.writeChanges(tx, tree, 0)
	})
}

// MoveAsPrevSibling relocates the subtree under nodeID to sit immediately
// before targetID.
func (r *MenuRepository) MoveAsPrevSibling(nodeID, targetID int64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		tree, err := r.loadTree(tx)
		if err != nil {
			return err
		}
		if err := tree.MoveAsPrevSibling(nodeID, targetID); err != nil {
			return err
		}
		return r.writeChanges(tx, tree, 0)
	})
}

// Delete soft-deletes the node and its descendants. Boundaries stay in place
// so the relative order of the remaining nodes is undisturbed.
func (r *MenuRepository) Delete(nodeID int64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		tree, err := r.loadTree(tx)
		if err != nil {
			return err
		}
		ids, err := tree.SubtreeIDs(nodeID)
		if err != nil {
			return err
		}
		return tx.Model(&models.MenuNode{}).
			Where("id IN ?", ids).
			Update("status", models.MenuStatusDelete).Error
	})
}

// HardDelete physically removes the node and its descendants and compacts
// the boundaries of all subsequent nodes.
func (r *MenuRepository) HardDelete(nodeID int64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		tree, err := r.loadTree(tx)
		if err != nil {
			return err
		}
		removed, err := tree.RemoveSubtree(nodeID)
		if err != nil {
			return err
		}
		if err := tx.Where("id IN ?", removed).Delete(&models.MenuNode{}).Error; err != nil {
			return err
		}
		return r.writeChanges(tx, tree, 0)
	})
}

// RebuildTree recomputes every boundary and level from the parent-pointer
// side channel. Administrative repair operation for corrupted boundaries.
func (r *MenuRepository) RebuildTree() error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		tree, err := r.loadTree(tx)
		if err != nil {
			return err
		}
		if err := tree.Rebuild(); err != nil {
			return err
		}
		return r.writeChanges(tx, tree, 0)
	})
}

// GetTree returns all menu rows in left-boundary order.
func (r *MenuRepository) GetTree() ([]models.MenuNode, error) {
	var rows []models.MenuNode
	err := r.DB.Order("lft asc").Find(&rows).Error
	return rows, err
}

// GetNode returns one menu row by id.
func (r *MenuRepository) GetNode(nodeID int64) (*models.MenuNode, error) {
	var row models.MenuNode
	if err := r.DB.First(&row, "id = ?", nodeID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Children returns the active direct children of a node: boundaries inside
// the node's and level exactly one deeper.
func (r *MenuRepository) Children(nodeID int64) ([]models.MenuNode, error) {
	node, err := r.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	var rows []models.MenuNode
	err = r.DB.
		Where("lft > ? AND rgt < ? AND level = ? AND status = ?", node.Lft, node.Rgt, node.Level+1, models.MenuStatusActive).
		Order("lft asc").
		Find(&rows).Error
	return rows, err
}

// Descendants returns every active node strictly inside the boundaries.
func (r *MenuRepository) Descendants(nodeID int64) ([]models.MenuNode, error) {
	node, err := r.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	var rows []models.MenuNode
	err = r.DB.
		Where("lft > ? AND rgt < ? AND status = ?", node.Lft, node.Rgt, models.MenuStatusActive).
		Order("lft asc").
		Find(&rows).Error
	return rows, err
}

// Ancestors returns the chain of enclosing nodes, outermost first.
func (r *MenuRepository) Ancestors(nodeID int64) ([]models.MenuNode, error) {
	node, err := r.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	var rows []models.MenuNode
	err = r.DB.
		Where("lft < ? AND rgt > ?", node.Lft, node.Rgt).
		Order("lft asc").
		Find(&rows).Error
	return rows, err
}

// Siblings returns the other active nodes under the same parent.
func (r *MenuRepository) Siblings(nodeID int64) ([]models.MenuNode, error) {
	node, err := r.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	var rows []models.MenuNode
	err = r.DB.
		Where("parent_id = ? AND id <> ? AND status = ?", node.ParentID, node.ID, models.MenuStatusActive).
		Order("lft asc").
		Find(&rows).Error
	return rows, err
}
