package domain

// BackupVersion is the current export document version.
const BackupVersion = 2

// BackupDocument is the JSON shape used for backup export and import:
// categories plus the ledger partitioned by month key. Import also accepts
// the legacy flat shape (see LegacyBackup); legacy records are bucketed under
// the month key of their date on the way in.
type BackupDocument struct {
	Version     int                         `json:"version"`
	Categories  []*Category                 `json:"categories"`
	MonthlyData map[string]*MonthlySnapshot `json:"monthlyData"`
}

// LegacyBackup is the pre-versioning export shape: four flat collections with
// no month partitioning.
type LegacyBackup struct {
	Incomes      []*Income      `json:"incomes"`
	Expenses     []*Expense     `json:"expenses"`
	Categories   []*Category    `json:"categories"`
	Installments []*Installment `json:"installments"`
}
