package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"direct_chat_service/internal/identity/domain"
)

// ErrAccountNotFound 查無帳號
var ErrAccountNotFound = errors.New("no account found with given criteria")

// AccountRepository definition get Account info
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccountStatus(ctx context.Context, account *domain.Account) error
	FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error)
}

type accountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository create a AccountRepository
func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO account(account_id, email, password, display_name, avatar_url, provider, subject) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		account.AccountID, account.Email, account.Password, account.DisplayName, account.AvatarURL, account.Provider, account.Subject)
	return err
}

func (r *accountRepository) UpdateAccountStatus(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, "UPDATE account SET status = $1 WHERE account_id = $2", account.Status, account.AccountID)
	return err
}

func (r *accountRepository) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	queryStr := "SELECT id, account_id, email, password, display_name, avatar_url, provider, subject FROM account WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if accountQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *accountQuery.Email)
		paramCount++
	}
	if accountQuery.AccountID != nil {
		queryStr += fmt.Sprintf(" AND account_id = $%d", paramCount)
		params = append(params, *accountQuery.AccountID)
		paramCount++
	}
	if accountQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *accountQuery.ID)
		paramCount++
	}
	if accountQuery.Provider != nil {
		queryStr += fmt.Sprintf(" AND provider = $%d", paramCount)
		params = append(params, *accountQuery.Provider)
		paramCount++
	}
	if accountQuery.Subject != nil {
		queryStr += fmt.Sprintf(" AND subject = $%d", paramCount)
		params = append(params, *accountQuery.Subject)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var account domain.Account
	err := row.Scan(&account.ID, &account.AccountID, &account.Email, &account.Password,
		&account.DisplayName, &account.AvatarURL, &account.Provider, &account.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &account, nil
}
