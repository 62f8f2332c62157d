package users

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type UserRepository interface {
	PersistUser(req models.RegisterUserRequest, hashedPassword []byte) (int, error)
	GetUser(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsers() ([]models.User, error)
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewUserRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.RegisterUserRequest, hashedPassword []byte) (int, error) {
	role := req.Role
	if role == "" {
		role = "staff"
	}

	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"name":          req.Name,
			"email":         req.Email,
			"password_hash": string(hashedPassword),
			"role":          role,
			"department":    req.Department,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("Could not register user", pqErr)
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

func (r *userRepositoryImpl) GetUser(id int) (*models.User, error) {
	var user models.User
	found, err := r.repository.GoquDBWrapper.
		Select("id", "name", "email", "role", "department", "created_at").
		From("users").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *userRepositoryImpl) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	found, err := r.repository.GoquDBWrapper.
		Select("id", "name", "email", "password_hash", "role", "department", "created_at").
		From("users").
		Where(goqu.Ex{"email": email}).
		Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	users := []models.User{}
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "email", "role", "department", "created_at").
		From("users").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}
