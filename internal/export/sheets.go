package export

import (
	"encoding/json"

	"agcbo/internal/entity/db"
)

// Accounts lists accounts with their role and gate state.
func Accounts(accounts []db.Account) Sheet {
	rows := make([][]interface{}, 0, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		ward, constituency := "", ""
		if a.Ward != nil {
			ward = a.Ward.Name
			if a.Ward.Constituency != nil {
				constituency = a.Ward.Constituency.Name
			}
		}
		rows = append(rows, []interface{}{
			a.ID,
			a.Username,
			a.FullName(),
			a.Email,
			a.PhoneNumber,
			a.Role,
			a.Department,
			a.OrganizationName,
			constituency,
			ward,
			yesNo(a.IsActive),
			yesNo(a.IsApproved),
			yesNo(a.IsVerified),
			formatTime(&a.CreatedAt),
			formatTime(a.LastLoginAt),
		})
	}
	return Sheet{
		Name: "Accounts",
		Headers: []string{
			"ID", "Username", "Name", "Email", "Phone", "Role", "Department", "Organisation",
			"Constituency", "Ward", "Active", "Approved", "Verified", "Joined", "Last Login",
		},
		Widths: []float64{8, 18, 24, 28, 16, 16, 18, 24, 20, 20, 8, 10, 10, 18, 18},
		Rows:   rows,
	}
}

// Donations lists donations of every status.
func Donations(donations []db.Donation) Sheet {
	rows := make([][]interface{}, 0, len(donations))
	for i := range donations {
		d := &donations[i]
		project, tx := "", ""
		if d.Project != nil {
			project = d.Project.Title
		}
		if d.TransactionID != nil {
			tx = *d.TransactionID
		}
		rows = append(rows, []interface{}{
			d.Reference,
			d.DonorName,
			d.DonorEmail,
			yesNo(d.IsAnonymous),
			d.Amount,
			d.Currency,
			d.PaymentMethod,
			d.Status,
			project,
			tx,
			formatTime(&d.CreatedAt),
			formatTime(d.CompletedAt),
		})
	}
	return Sheet{
		Name: "Donations",
		Headers: []string{
			"Reference", "Donor", "Email", "Anonymous", "Amount", "Currency", "Method",
			"Status", "Project", "Transaction", "Created", "Completed",
		},
		Widths: []float64{38, 24, 28, 10, 14, 10, 12, 12, 28, 20, 18, 18},
		Rows:   rows,
	}
}

// AuditLogs lists audit entries with their change sets as JSON.
func AuditLogs(entries []db.AuditLog) Sheet {
	rows := make([][]interface{}, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		actor := ""
		if e.Actor != nil {
			actor = e.Actor.Username
		}
		rows = append(rows, []interface{}{
			formatTime(&e.Timestamp),
			actor,
			e.Action,
			e.TargetType,
			e.TargetID,
			e.TargetRepr,
			changesJSON(e.Changes),
			e.SourceIP,
		})
	}
	return Sheet{
		Name:    "Audit Log",
		Headers: []string{"Time", "Actor", "Action", "Target Type", "Target ID", "Target", "Changes", "IP"},
		Widths:  []float64{18, 18, 10, 20, 10, 30, 50, 16},
		Rows:    rows,
	}
}

// changesJSON renders a change set; encoding/json sorts map keys.
func changesJSON(changes map[string]interface{}) string {
	if len(changes) == 0 {
		return ""
	}
	out, err := json.Marshal(changes)
	if err != nil {
		return ""
	}
	return string(out)
}
