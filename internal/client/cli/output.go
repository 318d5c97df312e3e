package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/services"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printPets(w io.Writer, page models.PetPage, q models.PetQuery) {
	if len(page.Pets) == 0 {
		fmt.Fprintln(w, "No pets found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tBREED\tAGE\tSTATUS")
	for _, p := range page.Pets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Breed, p.Age, p.Status)
	}
	_ = tw.Flush()

	limit := q.Limit
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	current := q.Page
	if current <= 0 {
		current = models.DefaultPage
	}
	pages := (page.TotalCount + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	fmt.Fprintf(w, "Page %d of %d (%d pets)\n", current, pages, page.TotalCount)
}

func printPet(w io.Writer, d services.PetDetails) {
	p := d.Pet
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Breed:\t%s\n", p.Breed)
	fmt.Fprintf(tw, "Age:\t%s\n", p.Age)
	fmt.Fprintf(tw, "Status:\t%s\n", p.Status)
	if p.Image != "" {
		fmt.Fprintf(tw, "Image:\t%s\n", p.Image)
	}
	_ = tw.Flush()
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}

	switch {
	case d.HasApplied:
		fmt.Fprintln(w, "You have already applied for this pet.")
	case d.CanApply:
		fmt.Fprintf(w, "Type 'adopt %s' to apply.\n", p.ID)
	}
}

func printApplications(w io.Writer, apps []models.Application, withUser bool) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications found.")
		return
	}
	tw := newTable(w)
	header := []string{"ID", "PET", "BREED"}
	if withUser {
		header = append(header, "USER", "EMAIL")
	}
	header = append(header, "STATUS", "APPLIED")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, app := range apps {
		petName := app.PetName
		if petName == "" {
			petName = app.Pet.ID
		}
		row := []string{app.ID, petName, app.PetBreed}
		if withUser {
			row = append(row, app.UserName, app.UserEmail)
		}
		applied := "-"
		if !app.CreatedAt.IsZero() {
			applied = app.CreatedAt.Format(dateLayout)
		}
		row = append(row, string(app.Status), applied)
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func printUser(w io.Writer, u models.User) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	_ = tw.Flush()
}
