package users

import (
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("code", "Code").
	Project("first_name", "FirstName").
	Project("last_name", "LastName").
	Project("email", "Email").
	Project("phone", "Phone").
	Project("role", "Role").
	Project("category", "Category").
	Project("container_ref", "ContainerRef").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Code,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.Category,
		&u.ContainerRef,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
