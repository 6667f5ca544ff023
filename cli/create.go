// ABOUTME: Create command: validate a draft and insert one record
// ABOUTME: Rejects locally on missing required fields or unresolvable client
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/sheet"
)

// CreateCommand builds a draft from flags and submits it.
func CreateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	company := fs.String("company", "", "Company name (required)")
	fecha := fs.String("fecha", "", "Celebration date YYYY-MM-DD (required)")
	status := fs.String("status", "", "Status (required)")
	cliente := fs.String("cliente", "", "Client id or label (required)")
	kdm := fs.String("kdm", "", "KDM name")
	tituloKDM := fs.String("titulo-kdm", "", "KDM title")
	kdmMail := fs.String("kdm-mail", "", "KDM mail")
	industria := fs.String("industria", "", "Industry")
	empleados := fs.String("empleados", "", "Employee count")
	score := fs.String("score", "", "Score 0-10")
	feedback := fs.String("feedback", "", "Feedback notes")
	mails := fs.String("ae-mails", "", "AE mails, comma separated")
	lineas := fs.String("lineas", "", "Business line ids, comma separated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	clientFilter := resolveClientFilter(*cliente, cfg)
	form := sheet.NewCreateForm(clientFilter)
	form.Set(models.FieldCompany, *company)
	form.Set(models.FieldFecha, *fecha)
	form.Set(models.FieldStatus, *status)
	form.Set(models.FieldKDM, *kdm)
	form.Set(models.FieldTituloKDM, *tituloKDM)
	form.Set(models.FieldKDMMail, *kdmMail)
	form.Set(models.FieldIndustria, *industria)
	form.Set(models.FieldEmpleados, *empleados)
	form.Set(models.FieldScore, *score)
	form.Set(models.FieldFeedback, *feedback)
	form.Set(models.FieldAEMails, *mails)
	form.Set(models.FieldLineaNegocio, *lineas)

	ctx := context.Background()
	client := NewRestClient(cfg)
	clients, err := client.FetchClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch clients: %w", err)
	}

	store := sheet.NewStore()
	row, err := form.Submit(ctx, client, clients, store)
	if err != nil {
		for field, msg := range form.Errors {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		return err
	}
	fmt.Printf("Created record %s (%s)\n", row.ID, row.Company)
	return nil
}
