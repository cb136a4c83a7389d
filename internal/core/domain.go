package core

import (
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	Weekly  Period = "weekly"
	Monthly Period = "monthly"

	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

type (
	TransactionType string

	// Period selects the evaluation window of a spending limit.
	Period string

	GoalStatus string

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	Category struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Color     string `json:"color"`
		Icon      string `json:"icon"`
		IsDefault bool   `json:"isDefault"`
	}

	Transaction struct {
		ID                  string          `json:"id"`
		UserID              string          `json:"userId"`
		Type                TransactionType `json:"type"`
		Description         string          `json:"description"`
		Amount              Money           `json:"amount"`
		Date                Date            `json:"date"`
		CategoryID          string          `json:"categoryId"`
		PaymentMethod       string          `json:"paymentMethod,omitempty"`
		IsRecurring         bool            `json:"isRecurring"`
		RecurrenceFrequency Period          `json:"recurrenceFrequency,omitempty"`
		CreatedAt           time.Time       `json:"createdAt"`
	}

	Goal struct {
		ID            string     `json:"id"`
		UserID        string     `json:"userId"`
		Title         string     `json:"title"`
		Description   string     `json:"description"`
		TargetAmount  Money      `json:"targetAmount"`
		CurrentAmount Money      `json:"currentAmount"`
		StartDate     Date       `json:"startDate"`
		EndDate       Date       `json:"endDate"`
		CategoryID    string     `json:"categoryId,omitempty"`
		Status        GoalStatus `json:"status"`
		CreatedAt     time.Time  `json:"createdAt"`
	}

	SpendingLimit struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		CategoryID  string    `json:"categoryId"`
		LimitAmount Money     `json:"limitAmount"`
		Period      Period    `json:"period"`
		CreatedAt   time.Time `json:"createdAt"`
	}
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a wire-format date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (p Period) Validate() error {
	switch p {
	case Weekly, Monthly:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 50 {
		return Invalid("category name too long (max 50 characters)")
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Type != Income && t.Type != Expense {
		return Invalid("transaction type must be income or expense")
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return Invalid("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if t.IsRecurring {
		if err := t.RecurrenceFrequency.Validate(); err != nil {
			return Invalid("recurrence frequency must be weekly or monthly")
		}
	} else if t.RecurrenceFrequency != "" {
		return Invalid("recurrence frequency set on a non-recurring transaction")
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return Invalid("goal title is required")
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return Invalid("target amount must be greater than zero")
	}
	if g.CurrentAmount.Cents < 0 {
		return Invalid("current amount must not be negative")
	}
	if g.CurrentAmount.Cents > g.TargetAmount.Cents {
		return Invalid("current amount must not exceed the target amount")
	}
	if err := g.StartDate.Validate(); err != nil {
		return Invalid("invalid start date")
	}
	if err := g.EndDate.Validate(); err != nil {
		return Invalid("invalid end date")
	}
	if !g.EndDate.After(g.StartDate.Time) {
		return ErrEndBeforeStart
	}
	switch g.Status {
	case GoalActive, GoalCompleted, GoalCancelled:
	default:
		return Invalid("invalid goal status")
	}
	return nil
}

func (l SpendingLimit) Validate() error {
	if strings.TrimSpace(l.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := l.LimitAmount.Validate(); err != nil {
		return err
	}
	return l.Period.Validate()
}

// DefaultCategories is the fixed set seeded for every new user.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Alimentação", Color: "#ef4444", Icon: "🍔", IsDefault: true},
		{ID: "2", Name: "Transporte", Color: "#3b82f6", Icon: "🚗", IsDefault: true},
		{ID: "3", Name: "Lazer", Color: "#8b5cf6", Icon: "🎮", IsDefault: true},
		{ID: "4", Name: "Saúde", Color: "#10b981", Icon: "🏥", IsDefault: true},
		{ID: "5", Name: "Educação", Color: "#f59e0b", Icon: "📚", IsDefault: true},
		{ID: "6", Name: "Moradia", Color: "#6366f1", Icon: "🏠", IsDefault: true},
		{ID: "7", Name: "Salário", Color: "#10b981", Icon: "💰", IsDefault: true},
		{ID: "8", Name: "Outros", Color: "#6b7280", Icon: "📦", IsDefault: true},
	}
}
