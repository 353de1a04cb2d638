package models

// PersonType distinguishes individuals (CPF) from companies (CNPJ).
type PersonType string

const (
	PersonIndividual PersonType = "FISICA"
	PersonCompany    PersonType = "JURIDICA"
)

type Client struct {
	ID         int64
	LocalID    string
	Name       string
	TradeName  string
	PersonType PersonType
	CPF        string
	CNPJ       string
	Email      string
	Contact    string
	Audit
}
