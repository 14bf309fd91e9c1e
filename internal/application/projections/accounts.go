package projections

import (
	"context"
	"time"

	accountStore "batalhao/internal/adapters/storage/account"
	"batalhao/internal/application/listutil"
	"batalhao/internal/domain/account"
)

// AccountView is the public shape of an account. It never carries the password hash.
type AccountView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Patente     string    `json:"patente"`
	Permissions []string  `json:"permissions"`
	LastLogin   time.Time `json:"lastLogin,omitzero"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewAccountView projects a into its public shape.
func NewAccountView(a account.Account) AccountView {
	return AccountView{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		Patente:     a.Patente,
		Permissions: a.Permissions(),
		LastLogin:   a.LastLogin,
		CreatedAt:   a.CreatedAt,
	}
}

// ListAccountsQuery carries the role filter and page.
type ListAccountsQuery struct {
	Role string
	Page listutil.PageParams
}

// ListAccountsDeps holds dependencies for ListAccounts.
type ListAccountsDeps struct {
	AccountStore AccountStore
}

// ListAccountsResult is one page of accounts.
type ListAccountsResult struct {
	Accounts []AccountView    `json:"accounts"`
	Page     listutil.PageInfo `json:"page"`
}

// QueryListAccounts returns a page of accounts ordered by name.
func QueryListAccounts(ctx context.Context, query ListAccountsQuery, deps ListAccountsDeps) (ListAccountsResult, error) {
	var total int
	var err error
	if query.Role != "" {
		total, err = deps.AccountStore.CountByRole(ctx, query.Role)
	} else {
		total, err = deps.AccountStore.Count(ctx)
	}
	if err != nil {
		return ListAccountsResult{}, err
	}

	page := listutil.NewPageInfo(query.Page.Page, query.Page.PerPage, total)
	list, err := deps.AccountStore.List(ctx, accountStore.ListFilter{
		Role:   query.Role,
		Limit:  page.PerPage,
		Offset: page.Offset(),
	})
	if err != nil {
		return ListAccountsResult{}, err
	}

	views := make([]AccountView, 0, len(list))
	for _, a := range list {
		views = append(views, NewAccountView(a))
	}
	return ListAccountsResult{Accounts: views, Page: page}, nil
}
