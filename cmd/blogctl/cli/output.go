package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/inkpost/inkpost/internal/handler/dto"
)

const excerptWidth = 48

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) renderTable(headers table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(headers)
	t.AppendRows(rows)
	t.Render()
}

func (a *app) printPosts(posts []dto.PostResponse) error {
	if a.asJSON {
		return a.printJSON(posts)
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts.")
		return nil
	}

	rows := make([]table.Row, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, table.Row{p.ID, p.Title, p.AuthorName, p.CreatedAt, text.Trim(p.Excerpt, excerptWidth)})
	}
	a.renderTable(table.Row{"ID", "Title", "Author", "Created", "Excerpt"}, rows)
	return nil
}

func (a *app) printPost(p *dto.PostResponse) error {
	if a.asJSON {
		return a.printJSON(p)
	}
	a.renderTable(table.Row{"Field", "Value"}, []table.Row{
		{"ID", p.ID},
		{"Title", p.Title},
		{"Author", fmt.Sprintf("%s (%s)", p.AuthorName, p.AuthorID)},
		{"Created", p.CreatedAt},
		{"Updated", p.UpdatedAt},
	})
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, p.Body)
	return nil
}

func (a *app) printUser(u *dto.UserResponse) error {
	if a.asJSON {
		return a.printJSON(u)
	}
	a.renderTable(table.Row{"Field", "Value"}, []table.Row{
		{"ID", u.ID},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Bio", orDash(u.Bio)},
		{"Avatar", orDash(u.AvatarURL)},
		{"Location", orDash(u.Location)},
		{"Website", orDash(u.Website)},
		{"Joined", orDash(u.JoinedAt)},
	})
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
