// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"ourshop/internal/apperr"
)

// TOTPSetup is what an authenticator app needs to enrol.
type TOTPSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
	QRCode     string `json:"qrCode"`
}

// SetupTOTP issues a fresh secret for userID. Once 2FA is enabled the
// secret can no longer be replaced through this path.
func (s *Service) SetupTOTP(ctx context.Context, userID uuid.UUID) (*TOTPSetup, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TOTPEnabled {
		return nil, apperr.Conflict("Two-factor authentication is already enabled")
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: s.issuer, AccountName: u.Email})
	if err != nil {
		return nil, err
	}
	if err := s.users.SetTOTPSecret(ctx, u.ID, key.Secret()); err != nil {
		return nil, err
	}
	return enrolment(key)
}

func enrolment(key *otp.Key) (*TOTPSetup, error) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	return &TOTPSetup{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     base64.StdEncoding.EncodeToString(png),
	}, nil
}

// VerifyTOTP checks code against the stored secret. The first valid code
// after setup enables 2FA for the account.
func (s *Service) VerifyTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if u.TOTPSecret == nil {
		return apperr.Validation("Two-factor authentication is not set up")
	}
	if !totp.Validate(code, *u.TOTPSecret) {
		return apperr.Unauthenticated("Invalid code. Please try again.")
	}
	if !u.TOTPEnabled {
		if err := s.users.EnableTOTP(ctx, u.ID); err != nil {
			return err
		}
		slog.Info("totp enabled", "user_id", u.ID)
	}
	return nil
}
