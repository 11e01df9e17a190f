package governance

const DefaultLedgerName = "unnamed ledger"

// Ledger is a placeholder for collective bookkeeping.
type Ledger struct {
	Name string `json:"name"`
}

func PrimaryLedgerName(collectiveName string) string {
	return "Primary Ledger for " + collectiveName
}
