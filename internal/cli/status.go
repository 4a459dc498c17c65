package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"catcher/internal/auth"
)

// StatusView is what `catcher status` shows.
type StatusView struct {
	Session string
	State   auth.AuthState
	Login   string
	Name    string
	Storage string
}

// FormatState renders an auth state with a colour matching its meaning.
func FormatState(state auth.AuthState) string {
	switch state {
	case auth.Authenticated:
		return text.FgGreen.Sprint("Authenticated")
	case auth.AwaitingAuthentication, auth.ConfirmOAuthUser:
		return text.FgYellow.Sprint("Login in progress")
	default:
		return text.FgYellow.Sprint("Not authenticated")
	}
}

// PrintStatus writes v as aligned label/value lines.
func PrintStatus(out io.Writer, v StatusView) {
	rows := [][2]string{
		{"Session", orNone(v.Session)},
		{"Status", FormatState(v.State)},
	}
	if v.Login != "" {
		user := v.Login
		if v.Name != "" && v.Name != v.Login {
			user = fmt.Sprintf("%s (%s)", v.Login, v.Name)
		}
		rows = append(rows, [2]string{"User", user})
	}
	if v.Storage != "" {
		rows = append(rows, [2]string{"Storage", v.Storage})
	}

	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	for _, r := range rows {
		label := r[0] + ":"
		fmt.Fprintf(out, "  %s%s%s\n", label, strings.Repeat(" ", width-len(r[0])+2), r[1])
	}
}

func orNone(s string) string {
	if s == "" {
		return text.FgHiBlack.Sprint("(none)")
	}
	return s
}
