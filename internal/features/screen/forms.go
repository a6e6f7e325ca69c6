package screen

import (
	"fmt"

	"coin-admin/internal/backend"
	"coin-admin/internal/features/access"
	"coin-admin/pkg/utils"

	"github.com/shopspring/decimal"
)

// Form is a validated screen form. Payload is the body sent to the backend.
type Form interface {
	Payload() any
}

// ActionForm is a form whose expected result can be applied to a cached
// list row before the backend confirms it.
type ActionForm interface {
	Form
	Apply(row backend.Row)
}

type UserForm struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=60"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Phone    string `json:"phone" form:"phone" validate:"required,phone"`
	Gender   string `json:"gender,omitempty" form:"gender" validate:"omitempty,oneof=male female other"`
	Password string `json:"password,omitempty" form:"password" validate:"omitempty,min=6"`
}

func (f *UserForm) Payload() any { return f }

type CoinPackageForm struct {
	Coins    int    `json:"coins" form:"coins" validate:"required,min=1"`
	Price    string `json:"price" form:"price" validate:"required,decimal,nonneg"`
	Discount string `json:"discount,omitempty" form:"discount" validate:"omitempty,decimal,nonneg"`
	Status   string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive"`
}

func (f *CoinPackageForm) Payload() any { return f }

type LanguageForm struct {
	Name   string `json:"name" form:"name" validate:"required,min=2,max=40"`
	Code   string `json:"code" form:"code" validate:"required,min=2,max=5"`
	Status string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive"`
}

func (f *LanguageForm) Payload() any { return f }

type NotificationForm struct {
	Title    string `json:"title" form:"title" validate:"required,max=100"`
	Message  string `json:"message" form:"message" validate:"required,max=500"`
	Audience string `json:"audience" form:"audience" validate:"required,oneof=all users hosts"`
	ImageURL string `json:"imageUrl,omitempty" form:"imageUrl" validate:"omitempty,url"`
}

func (f *NotificationForm) Payload() any { return f }

type CMSForm struct {
	Title   string `json:"title" form:"title" validate:"required,max=100"`
	Slug    string `json:"slug" form:"slug" validate:"omitempty,max=100"`
	Content string `json:"content" form:"content" validate:"required"`
}

// Payload fills a missing slug from the title.
func (f *CMSForm) Payload() any {
	if f.Slug == "" {
		f.Slug = utils.Slugify(f.Title)
	} else {
		f.Slug = utils.Slugify(f.Slug)
	}
	return f
}

type LeaderboardForm struct {
	Name   string `json:"name" form:"name" validate:"required,max=60"`
	Period string `json:"period" form:"period" validate:"required,oneof=daily weekly monthly"`
	Rank   int    `json:"rank" form:"rank" validate:"required,min=1"`
	Reward string `json:"reward" form:"reward" validate:"required,decimal,nonneg"`
}

func (f *LeaderboardForm) Payload() any { return f }

type SettingsForm struct {
	CoinRate      string `json:"coinRate" form:"coinRate" validate:"required,decimal,nonneg"`
	CallRate      string `json:"callRate" form:"callRate" validate:"required,decimal,nonneg"`
	MinWithdrawal string `json:"minWithdrawal" form:"minWithdrawal" validate:"required,decimal,nonneg"`
	SupportEmail  string `json:"supportEmail" form:"supportEmail" validate:"required,email"`
	SupportPhone  string `json:"supportPhone,omitempty" form:"supportPhone" validate:"omitempty,phone"`
}

func (f *SettingsForm) Payload() any { return f }

type AdminForm struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=60"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	RoleID   string `json:"roleId" form:"roleId" validate:"required"`
}

func (f *AdminForm) Payload() any { return f }

type RoleForm struct {
	Name   string               `json:"name" validate:"required,min=2,max=60"`
	Access []access.AccessEntry `json:"access" validate:"required,min=1,dive"`
}

func (f *RoleForm) Payload() any { return f }

type PasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}

func (f *PasswordForm) Payload() any { return f }

type SearchForm struct {
	Term string `json:"term" validate:"max=100"`
}

// StatusForm switches a row between active and inactive.
type StatusForm struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (f *StatusForm) Payload() any          { return f }
func (f *StatusForm) Apply(row backend.Row) { row["status"] = f.Status }

// BlockForm blocks or unblocks a user.
type BlockForm struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

func (f *BlockForm) Payload() any { return map[string]bool{"isBlocked": *f.Blocked} }

func (f *BlockForm) Apply(row backend.Row) { row["isBlocked"] = *f.Blocked }

// DecisionForm approves or rejects a withdrawal or a KYC submission.
type DecisionForm struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Note   string `json:"note,omitempty" validate:"max=500"`
}

func (f *DecisionForm) Payload() any          { return f }
func (f *DecisionForm) Apply(row backend.Row) { row["status"] = f.Status }

const BalanceField = "coins"

// BalanceForm credits or debits a user's coin balance.
type BalanceForm struct {
	Amount    string `json:"amount" validate:"required,decimal,nonneg"`
	Operation string `json:"operation" validate:"required,oneof=credit debit"`
}

func (f *BalanceForm) Payload() any { return f }

func (f *BalanceForm) Apply(row backend.Row) {
	amount, err := decimal.NewFromString(f.Amount)
	if err != nil {
		return
	}
	if f.Operation == "debit" {
		amount = amount.Neg()
	}
	row[BalanceField] = balanceOf(row).Add(amount).InexactFloat64()
}

func balanceOf(row backend.Row) decimal.Decimal {
	switch v := row[BalanceField].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case nil:
	default:
		if d, err := decimal.NewFromString(fmt.Sprint(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}
