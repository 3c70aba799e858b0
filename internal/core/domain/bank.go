package domain

// CompanyBankAccount is one entry in the company's payout account list.
// The list is small, ordered, and always edited and saved as a whole;
// entries have no identity of their own.
type CompanyBankAccount struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	HolderName    string `json:"holder_name"`
}
