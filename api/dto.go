/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/snapshot.go: loose row types reused for scenario fixtures
*/
package api

// =============================================================================
// MEMBERS
// =============================================================================

// MemberDTO is one member row of the network report.
type MemberDTO struct {
	ID             string `json:"id"`
	SponsorID      string `json:"sponsor_id,omitempty"`
	JoinDate       string `json:"join_date,omitempty"`
	Status         string `json:"status"`
	IsSpecial      bool   `json:"is_special,omitempty"`
	Stage          int    `json:"stage"`
	DirectRecruits int    `json:"direct_recruits"`
	Progress       int    `json:"progress"`
	NextTarget     *int   `json:"next_target,omitempty"`
	DownlineDepth  int    `json:"downline_depth"`
}

// MemberDetailDTO adds commission figures and the upline chain.
type MemberDetailDTO struct {
	MemberDTO
	StageEntryDate  string         `json:"stage_entry_date,omitempty"`
	TotalCommission string         `json:"total_commission"`
	TotalPaid       string         `json:"total_paid"`
	Remaining       string         `json:"remaining"`
	PersonalRate    string         `json:"personal_rate"`
	Upline          []UplineHopDTO `json:"upline"`
	DownlineSize    int            `json:"downline_size"`
}

// UplineHopDTO is one sponsor in a member's upline chain.
type UplineHopDTO struct {
	Level    int    `json:"level"`
	MemberID string `json:"member_id"`
}

// CreateMemberRequest creates a member. ID is optional; a UUID is
// generated when absent.
type CreateMemberRequest struct {
	ID        string `json:"id"`
	SponsorID string `json:"sponsor_id"`
	JoinDate  string `json:"join_date"`
	IsSpecial bool   `json:"is_special"`
}

// =============================================================================
// SALES AND INVESTMENTS
// =============================================================================

// SaleDTO is a sale with its settlement state.
type SaleDTO struct {
	ID          string       `json:"id"`
	SellerID    string       `json:"seller_id"`
	PropertyID  string       `json:"property_id,omitempty"`
	AreaSqYd    string       `json:"area_sq_yd"`
	TotalAmount string       `json:"total_amount"`
	SaleDate    string       `json:"sale_date"`
	DueDate     string       `json:"due_date"`
	Status      string       `json:"status"`
	PaymentDone bool         `json:"payment_done"`
	PaidAmount  string       `json:"paid_amount"`
	PaidDate    string       `json:"paid_date,omitempty"`
	Payments    []PaymentDTO `json:"payments"`
}

// CreateSaleRequest creates a sale.
type CreateSaleRequest struct {
	ID             string `json:"id"`
	SellerID       string `json:"seller_id"`
	PropertyID     string `json:"property_id"`
	AreaSqYd       string `json:"area_sq_yd"`
	TotalAmount    string `json:"total_amount"`
	SaleDate       string `json:"sale_date"`
	BuybackEnabled bool   `json:"buyback_enabled"`
}

// InvestmentDTO is an investment with its settlement and buyback state.
type InvestmentDTO struct {
	ID            string       `json:"id"`
	PersonID      string       `json:"person_id"`
	Amount        string       `json:"amount"`
	AreaSqYd      string       `json:"area_sq_yd"`
	Date          string       `json:"date"`
	DueDate       string       `json:"due_date"`
	PaymentStatus string       `json:"payment_status"`
	BuybackMonths int          `json:"buyback_months"`
	ReturnPercent string       `json:"return_percent"`
	BuybackDate   string       `json:"buyback_date,omitempty"`
	PaidAmount    string       `json:"paid_amount"`
	Payments      []PaymentDTO `json:"payments"`
}

// CreateInvestmentRequest creates an investment.
type CreateInvestmentRequest struct {
	ID            string `json:"id"`
	PersonID      string `json:"person_id"`
	Amount        string `json:"amount"`
	AreaSqYd      string `json:"area_sq_yd"`
	Date          string `json:"date"`
	BuybackMonths int    `json:"buyback_months"`
	ReturnPercent string `json:"return_percent"`
}

// PaymentDTO is one recorded installment.
type PaymentDTO struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

// RecordPaymentRequest records an installment against a sale or
// investment. Date defaults to today when absent.
type RecordPaymentRequest struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

// =============================================================================
// RATES
// =============================================================================

// RateEntryDTO is one versioned rate set.
type RateEntryDTO struct {
	CreatedAt     string   `json:"created_at"`
	LevelRates    []string `json:"level_rates"`
	PersonalRates []string `json:"personal_rates"`
}

// AppendRatesRequest appends a new rate set. CreatedAt defaults to today.
type AppendRatesRequest struct {
	CreatedAt     string   `json:"created_at"`
	LevelRates    []string `json:"level_rates"`
	PersonalRates []string `json:"personal_rates"`
}

// =============================================================================
// COMMISSION
// =============================================================================

// CommissionRowDTO is one member's commission summary.
type CommissionRowDTO struct {
	MemberID        string `json:"member_id"`
	Stage           int    `json:"stage"`
	PersonalRate    string `json:"personal_rate"`
	TotalCommission string `json:"total_commission"`
	TotalPaid       string `json:"total_paid"`
	Remaining       string `json:"remaining"`
	MaxLevel        int    `json:"max_level"`
}

// CommissionReportDTO is the aggregate commission report.
type CommissionReportDTO struct {
	Members         []CommissionRowDTO `json:"members"`
	TotalCommission string             `json:"total_commission"`
	TopEarners      []CommissionRowDTO `json:"top_earners"`
}

// RecordPayoutRequest records a payout of earned commission.
type RecordPayoutRequest struct {
	PersonID string `json:"person_id"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

// =============================================================================
// SWEEP AND SCENARIOS
// =============================================================================

// SweepResultDTO reports what a lifecycle sweep changed.
type SweepResultDTO struct {
	SalesSettled         []string `json:"sales_settled"`
	SalesCancelled       []string `json:"sales_cancelled"`
	InvestmentsSettled   []string `json:"investments_settled"`
	InvestmentsCancelled []string `json:"investments_cancelled"`
	MembersActivated     []string `json:"members_activated"`
	MembersDeactivated   []string `json:"members_deactivated"`
	PropertiesReleased   []string `json:"properties_released"`
}

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
