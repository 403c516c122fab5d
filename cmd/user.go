package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/form"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// resolveUser builds the acting user from flags, environment and the
// board's saved context, in that order of precedence.
func resolveUser(cfg *config.Config) (form.User, error) {
	u := form.User{
		ID:           firstNonEmpty(flagUser, os.Getenv(envUser), cfg.Context.User.ID),
		Role:         firstNonEmpty(flagRole, os.Getenv(envRole), cfg.Context.User.Role),
		Coordination: firstNonEmpty(flagCoordination, os.Getenv(envCoordination), cfg.Context.User.Coordination),
	}
	if err := checkUser(u); err != nil {
		return form.User{}, err
	}
	return u, nil
}

// checkUser validates the acting user and converts validation failures
// into an INVALID_USER error.
func checkUser(u form.User) error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	msg := "invalid acting user: " + strings.Join(fields, ", ")
	if u.ID == "" {
		msg = "no acting user; set --user, " + envUser + " or context.user.id"
	}
	return clierr.New(clierr.InvalidUser, msg).
		WithDetails(map[string]any{"fields": fields})
}

// resolveMarket returns the market context for new tasks and board views.
func resolveMarket(cfg *config.Config) string {
	return firstNonEmpty(flagMarket, os.Getenv(envMarket), cfg.Context.Market)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
