package seed

import (
	"log"

	"admin-app/models"
	"admin-app/repositories"
)

// SeedMenus builds the default admin menu tree for a fresh tenant database.
// Skipped when any menu row already exists.
func SeedMenus(repo *repositories.MenuRepository) {
	existing, err := repo.GetTree()
	if err != nil {
		log.Println("Failed to check existing menus:", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	roots := []struct {
		input    models.MenuNode
		children []models.MenuNode
	}{
		{
			input: models.MenuNode{Name: "Dashboard", Path: "/dashboard", Icon: "LayoutDashboard", Type: "menu"},
		},
		{
			input: models.MenuNode{Name: "Master Data", Path: "/master", Icon: "Database", Type: "menu"},
			children: []models.MenuNode{
				{Name: "Customers", Path: "/master/customers", Type: "menu"},
				{Name: "Contracts", Path: "/master/contracts", Type: "menu"},
			},
		},
		{
			input: models.MenuNode{Name: "Settings", Path: "/settings", Icon: "Settings", Type: "menu"},
			children: []models.MenuNode{
				{Name: "Users", Path: "/settings/users", Type: "menu"},
				{Name: "Modules", Path: "/settings/modules", Type: "menu"},
			},
		},
	}

	for _, r := range roots {
		rootInput := r.input
		root, err := repo.CreateRoot(&rootInput)
		if err != nil {
			log.Println("Failed to seed menu root:", err)
			continue
		}
		for _, c := range r.children {
			child := c
			if _, err := repo.CreateAsLastChild(int64(root.ID), &child); err != nil {
				log.Println("Failed to seed menu child:", err)
			}
		}
	}
}
