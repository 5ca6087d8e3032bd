package handler

// DepositRequest represents a request to credit the caller's wallet
type DepositRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description,omitempty"`
}

// TransferRequest represents a request to send money to another user.
// Recipient lookup is a raw equality match against the stored phone
// number, which is always E.164. The binding enforces the same form so
// a recipient that exists can never be missed over formatting.
type TransferRequest struct {
	RecipientPhone string `json:"recipient_phone" binding:"required,e164"`
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	Description    string `json:"description,omitempty"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	FromUserID    string `json:"from_user_id,omitempty"`
	ToUserID      string `json:"to_user_id,omitempty"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

// MovementResponse represents the outcome of a deposit or transfer,
// including the caller's balance after the movement committed
type MovementResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     int64               `json:"balance"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// BalanceHistoryResponse represents one party's audit row of a transaction
type BalanceHistoryResponse struct {
	UserID        string `json:"user_id"`
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
	CreatedAt     string `json:"created_at"`
}

// TransactionDetailResponse represents a transaction with its audit trail
type TransactionDetailResponse struct {
	Transaction TransactionResponse      `json:"transaction"`
	History     []BalanceHistoryResponse `json:"history"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
