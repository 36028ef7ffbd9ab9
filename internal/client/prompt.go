// Package client holds the interactive input helpers used by the shell.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/accountkeeper/internal/models"
)

// ErrInputClosed is returned when the input ends before a prompt is answered.
var ErrInputClosed = errors.New("input closed")

// accountInput is the raw form typed by the user.
type accountInput struct {
	Labels   []string `validate:"dive,required,max=50"`
	Type     string   `validate:"required"`
	Login    string   `validate:"required,max=100"`
	Password string   `validate:"max=100"`
}

var validate = validator.New()

// Prompter asks for account fields line by line.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Line prints prompt and returns the next trimmed input line.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// PromptForAccount asks for a new account. Local accounts need a password;
// an empty password on an LDAP account is stored as no password.
func (p *Prompter) PromptForAccount() (models.Account, error) {
	var in accountInput

	labels, err := p.Line("Enter labels (comma separated): ")
	if err != nil {
		return models.Account{}, err
	}
	in.Labels = SplitLabels(labels)

	if in.Type, err = p.Line("Enter type (Local/LDAP): "); err != nil {
		return models.Account{}, err
	}
	if in.Login, err = p.Line("Enter login: "); err != nil {
		return models.Account{}, err
	}
	if in.Password, err = p.Line("Enter password (empty for none): "); err != nil {
		return models.Account{}, err
	}

	return build(in)
}

// PromptEditAccount asks for replacement values. An empty answer keeps the
// current value; "-" clears the labels or the password.
func (p *Prompter) PromptEditAccount(current models.Account) (models.Account, error) {
	in := accountInput{
		Type:  string(current.Type),
		Login: current.Login,
	}
	for _, l := range current.Labels {
		in.Labels = append(in.Labels, l.Text)
	}
	if current.Password != nil {
		in.Password = *current.Password
	}

	answer, err := p.Line(fmt.Sprintf("Labels [%s]: ", strings.Join(in.Labels, ", ")))
	if err != nil {
		return models.Account{}, err
	}
	switch answer {
	case "":
	case "-":
		in.Labels = nil
	default:
		in.Labels = SplitLabels(answer)
	}

	if answer, err = p.Line(fmt.Sprintf("Type [%s]: ", in.Type)); err != nil {
		return models.Account{}, err
	}
	if answer != "" {
		in.Type = answer
	}

	if answer, err = p.Line(fmt.Sprintf("Login [%s]: ", in.Login)); err != nil {
		return models.Account{}, err
	}
	if answer != "" {
		in.Login = answer
	}

	if answer, err = p.Line("Password [unchanged]: "); err != nil {
		return models.Account{}, err
	}
	switch answer {
	case "":
	case "-":
		in.Password = ""
	default:
		in.Password = answer
	}

	return build(in)
}

// SplitLabels turns "a, b,,c" into [a b c].
func SplitLabels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func build(in accountInput) (models.Account, error) {
	if err := validate.Struct(in); err != nil {
		return models.Account{}, fmt.Errorf("invalid account: %w", err)
	}
	typ, err := models.ParseAccountType(in.Type)
	if err != nil {
		return models.Account{}, err
	}
	if typ == models.Local && in.Password == "" {
		return models.Account{}, errors.New("invalid account: local accounts need a password")
	}

	acc := models.Account{
		Labels: make([]models.Label, 0, len(in.Labels)),
		Type:   typ,
		Login:  in.Login,
	}
	for _, l := range in.Labels {
		acc.Labels = append(acc.Labels, models.Label{Text: l})
	}
	if in.Password != "" {
		acc.Password = models.PasswordPtr(in.Password)
	}
	return acc, nil
}
