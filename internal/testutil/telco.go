// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mamassboy/Eksperimen-SML-DimasAryaArjuna/pkg/core"
)

// TelcoHeader is the column order of the Telco customer churn dataset.
var TelcoHeader = []string{
	"customerID", "gender", "SeniorCitizen", "Partner", "Dependents", "tenure",
	"PhoneService", "MultipleLines", "InternetService", "OnlineSecurity",
	"OnlineBackup", "DeviceProtection", "TechSupport", "StreamingTV",
	"StreamingMovies", "Contract", "PaperlessBilling", "PaymentMethod",
	"MonthlyCharges", "TotalCharges", "Churn",
}

// TelcoCSV is a ten row sample of the dataset. The last row has a blank
// TotalCharges and is dropped by cleaning; four of the remaining nine churn.
const TelcoCSV = `customerID,gender,SeniorCitizen,Partner,Dependents,tenure,PhoneService,MultipleLines,InternetService,OnlineSecurity,OnlineBackup,DeviceProtection,TechSupport,StreamingTV,StreamingMovies,Contract,PaperlessBilling,PaymentMethod,MonthlyCharges,TotalCharges,Churn
7590-VHVEG,Female,0,Yes,No,1,No,No phone service,DSL,No,Yes,No,No,No,No,Month-to-month,Yes,Electronic check,29.85,29.85,No
5575-GNVDE,Male,0,No,No,34,Yes,No,DSL,Yes,No,Yes,No,No,No,One year,No,Mailed check,56.95,1889.5,No
3668-QPYBK,Male,0,No,No,2,Yes,No,DSL,Yes,Yes,No,No,No,No,Month-to-month,Yes,Mailed check,53.85,108.15,Yes
7795-CFOCW,Male,0,No,No,45,No,No phone service,DSL,Yes,No,Yes,Yes,No,No,One year,No,Bank transfer (automatic),42.3,1840.75,No
9237-HQITU,Female,0,No,No,2,Yes,No,Fiber optic,No,No,No,No,No,No,Month-to-month,Yes,Electronic check,70.7,151.65,Yes
9305-CDSKC,Female,0,No,No,8,Yes,Yes,Fiber optic,No,No,Yes,No,Yes,Yes,Month-to-month,Yes,Electronic check,99.65,820.5,Yes
1452-KIOVK,Male,0,No,Yes,22,Yes,Yes,Fiber optic,No,Yes,No,No,Yes,No,Month-to-month,Yes,Credit card (automatic),89.1,1949.4,No
6713-OKOMC,Female,0,No,No,10,No,No phone service,DSL,Yes,No,No,No,No,No,Month-to-month,No,Mailed check,29.75,301.9,No
7892-POOKP,Female,0,Yes,No,28,Yes,Yes,Fiber optic,No,No,Yes,Yes,Yes,Yes,Month-to-month,Yes,Electronic check,104.8,3046.05,Yes
4472-LVYGI,Female,0,Yes,Yes,0,No,No phone service,DSL,Yes,No,Yes,Yes,Yes,No,Two year,Yes,Bank transfer (automatic),52.55, ,No
`

// Known shape facts about TelcoCSV.
const (
	TelcoRows         = 10
	TelcoRetainedRows = 9
	TelcoChurned      = 4
	// TelcoFeatureCols is 3 scaled columns plus 34 indicator columns
	// observed over the nine retained rows.
	TelcoFeatureCols = 37
)

// TelcoTable returns TelcoCSV as a table without going through the loader.
func TelcoTable() *core.Table {
	lines := strings.Split(strings.TrimSpace(TelcoCSV), "\n")
	t := core.NewTable(strings.Split(lines[0], ",")...)
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, strings.Split(line, ","))
	}
	return t
}

// WriteTelcoCSV writes TelcoCSV into dir and returns its path.
func WriteTelcoCSV(t *testing.T, dir string) string {
	t.Helper()
	return WriteFile(t, dir, "telco.csv", TelcoCSV)
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
