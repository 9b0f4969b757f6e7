package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vendor "github.com/feiralivre/feiralivre-backend/internal/vendors"
	pkgauth "github.com/feiralivre/feiralivre-backend/pkg/auth"
	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
	"github.com/feiralivre/feiralivre-backend/pkg/mailer"
	"github.com/feiralivre/feiralivre-backend/pkg/security"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so the
// two cases are indistinguishable to the caller.
var (
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	ErrNotConfirmed       = pkgerrors.New(pkgerrors.CodeUnauthorized, "account not confirmed")
	ErrPasswordMismatch   = pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
)

// Service implements registration, login and the two token workflows.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Vendor, error)
	Login(ctx context.Context, email, password string) (*models.Vendor, error)
	Activate(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, password, confirmation string) error
}

// RegisterInput carries the validated registration payload.
type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	SellingName  string
	Phone        string
	SaleLocation string
}

type service struct {
	vendors     *vendor.Repository
	signer      *pkgauth.Signer
	mail        mailer.Mailer
	logg        *logger.Logger
	tokenCfg    config.TokenConfig
	passwordCfg config.PasswordConfig
	baseURL     string
}

// NewService constructs the auth service.
func NewService(
	vendors *vendor.Repository,
	signer *pkgauth.Signer,
	mail mailer.Mailer,
	logg *logger.Logger,
	tokenCfg config.TokenConfig,
	passwordCfg config.PasswordConfig,
	baseURL string,
) (Service, error) {
	if vendors == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if signer == nil {
		return nil, fmt.Errorf("token signer required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		vendors:     vendors,
		signer:      signer,
		mail:        mail,
		logg:        logg,
		tokenCfg:    tokenCfg,
		passwordCfg: passwordCfg,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}, nil
}

// Register persists a new inactive vendor and mails the activation link.
// Mail delivery is best-effort: a failure is logged and the vendor stays
// registered.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Vendor, error) {
	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	newVendor := &models.Vendor{
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		SellingName:  strings.TrimSpace(input.SellingName),
		Phone:        strings.TrimSpace(input.Phone),
		SaleLocation: strings.TrimSpace(input.SaleLocation),
		Active:       false,
		Available:    false,
	}
	if err := s.vendors.Create(ctx, newVendor); err != nil {
		return nil, err
	}

	s.sendActivationMail(ctx, newVendor)
	return newVendor, nil
}

// Login resolves email + password to an active vendor. Unknown email and
// wrong password both return ErrInvalidCredentials; an inactive vendor gets
// ErrNotConfirmed before the password is even checked, so correctness of the
// password leaks nothing about an unconfirmed account.
func (s *service) Login(ctx context.Context, email, password string) (*models.Vendor, error) {
	found, err := s.vendors.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !found.Active {
		return nil, ErrNotConfirmed
	}

	ok, err := security.VerifyPassword(password, found.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return found, nil
}

// Activate verifies an activation token and flips the vendor to active.
// Re-visiting a still-fresh link is harmless. A token whose vendor no longer
// exists is reported as invalid, same as a bad signature.
func (s *service) Activate(ctx context.Context, token string) error {
	vendorID, err := s.signer.Verify(token, pkgauth.PurposeActivate, s.tokenCfg.ActivationMaxAge)
	if err != nil {
		return err
	}

	found, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgauth.ErrTokenInvalid
		}
		return err
	}

	if found.Active {
		return nil
	}
	found.Active = true
	return s.vendors.Update(ctx, found)
}

// RequestPasswordReset mails a reset link when the email matches a vendor.
// It returns nil either way; the caller shows the same confirmation message
// regardless, so the existence of an account cannot be probed.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	found, err := s.vendors.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	s.sendResetMail(ctx, found)
	return nil
}

// VerifyResetToken checks a reset token without consuming it, so the form can
// reject a dead link before the visitor fills it in. A token whose vendor no
// longer exists is reported as invalid.
func (s *service) VerifyResetToken(ctx context.Context, token string) error {
	vendorID, err := s.signer.Verify(token, pkgauth.PurposePasswordReset, s.tokenCfg.ResetMaxAge)
	if err != nil {
		return err
	}

	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgauth.ErrTokenInvalid
		}
		return err
	}
	return nil
}

// ResetPassword verifies a reset token and stores the new password. The token
// is not consumed: it stays replayable until it expires.
func (s *service) ResetPassword(ctx context.Context, token, password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}

	vendorID, err := s.signer.Verify(token, pkgauth.PurposePasswordReset, s.tokenCfg.ResetMaxAge)
	if err != nil {
		return err
	}

	found, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgauth.ErrTokenInvalid
		}
		return err
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	found.PasswordHash = hash
	return s.vendors.Update(ctx, found)
}

func (s *service) sendActivationMail(ctx context.Context, v *models.Vendor) {
	token, err := s.signer.Sign(v.ID, pkgauth.PurposeActivate)
	if err != nil {
		s.logg.Error(ctx, "signing activation token failed", err)
		return
	}

	link := fmt.Sprintf("%s/ativar/%s/", s.baseURL, token)
	msg := mailer.Message{
		To:      v.Email,
		Subject: "Confirme seu cadastro na FeiraLivre",
		Body: fmt.Sprintf(
			"Olá, %s!\n\nPara ativar sua conta, acesse o link abaixo:\n\n%s\n\nO link vale por 24 horas.\n",
			v.FullName, link,
		),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logg.Error(s.logg.WithVendorID(ctx, v.ID), "sending activation mail failed", err)
	}
}

func (s *service) sendResetMail(ctx context.Context, v *models.Vendor) {
	token, err := s.signer.Sign(v.ID, pkgauth.PurposePasswordReset)
	if err != nil {
		s.logg.Error(ctx, "signing reset token failed", err)
		return
	}

	link := fmt.Sprintf("%s/password-reset/%s/", s.baseURL, token)
	msg := mailer.Message{
		To:      v.Email,
		Subject: "Recuperação de senha - FeiraLivre",
		Body: fmt.Sprintf(
			"Olá, %s!\n\nPara definir uma nova senha, acesse o link abaixo:\n\n%s\n\nO link vale por 24 horas. Se você não pediu a troca, ignore este e-mail.\n",
			v.FullName, link,
		),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logg.Error(s.logg.WithVendorID(ctx, v.ID), "sending reset mail failed", err)
	}
}
