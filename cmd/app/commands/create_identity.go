package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityUseCase "github.com/rahats/school/internal/identity/usecase"
)

// CreateIdentityParams carries the create-identity flags.
type CreateIdentityParams struct {
	Role       string
	Identifier string
	Password   string //nolint:gosec // read from the terminal when empty
	Email      string
	Name       string
	Lastname   string
	ClassID    int64
	Format     string
}

// RunCreateIdentity registers a student or teacher with a hashed identifier, a hashed
// password and an encrypted email. When no password is given it is read from io.Reader.
//
// Requirements: Database must be migrated and accessible.
func RunCreateIdentity(
	ctx context.Context,
	useCase identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	params CreateIdentityParams,
	io IOTuple,
) error {
	if err := validateFormat(params.Format); err != nil {
		return err
	}

	role, err := identityDomain.ParseRole(params.Role)
	if err != nil {
		return err
	}

	password := params.Password
	if password == "" {
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	input := &identityDomain.CreateIdentityInput{
		Role:       role,
		Identifier: params.Identifier,
		Password:   password,
		Email:      params.Email,
		Name:       params.Name,
		Lastname:   params.Lastname,
	}
	if params.ClassID > 0 {
		classID := params.ClassID
		input.ClassID = &classID
	}

	logger.Info("creating identity", slog.String("role", role.String()))

	subject, err := useCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	if params.Format == "json" {
		writeJSON(io.Writer, subject)
	} else {
		outputCreateIdentityText(subject, io.Writer)
	}

	logger.Info("identity created successfully",
		slog.String("role", role.String()),
		slog.Int64("id", subject.ID),
	)

	return nil
}

// promptForPassword reads a single line from the reader.
func promptForPassword(streams IOTuple) (string, error) {
	if streams.Reader == nil {
		return "", errors.New("no password given and no input available")
	}

	_, _ = fmt.Fprint(streams.Writer, "Enter password: ")
	line, err := bufio.NewReader(streams.Reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	_, _ = fmt.Fprintln(streams.Writer)

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}

func outputCreateIdentityText(subject *identityDomain.Subject, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Created %s %d: %s %s\n", subject.Role, subject.ID, subject.Name, subject.Lastname)
}
