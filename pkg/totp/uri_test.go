package totp_test

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/lexcase/lexcase/pkg/totp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnrollmentURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		params  totp.Params
		want    string
		wantErr error
	}{
		{
			name: "Basic URI",
			params: totp.Params{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "test@example.com",
				Issuer:      "LexCase",
			},
			want: "otpauth://totp/LexCase:test@example.com?algorithm=SHA1&digits=6&issuer=LexCase&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "URI with special characters",
			params: totp.Params{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "test+user@example.com",
				Issuer:      "Smith & Partners",
			},
			want: "otpauth://totp/Smith%20&%20Partners:test+user@example.com?algorithm=SHA1&digits=6&issuer=Smith+%26+Partners&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name:    "Missing secret",
			params:  totp.Params{AccountName: "a@b.com", Issuer: "LexCase"},
			wantErr: totp.ErrMissingSecret,
		},
		{
			name:    "Invalid secret",
			params:  totp.Params{Secret: "abc-123", AccountName: "a@b.com", Issuer: "LexCase"},
			wantErr: totp.ErrInvalidSecret,
		},
		{
			name:    "Missing account",
			params:  totp.Params{Secret: "ABCDEFGHIJKLMNOP", Issuer: "LexCase"},
			wantErr: totp.ErrMissingAccountName,
		},
		{
			name:    "Missing issuer",
			params:  totp.Params{Secret: "ABCDEFGHIJKLMNOP", AccountName: "a@b.com"},
			wantErr: totp.ErrMissingIssuer,
		},
		{
			name:    "Colon in account",
			params:  totp.Params{Secret: "ABCDEFGHIJKLMNOP", AccountName: "a:b", Issuer: "LexCase"},
			wantErr: totp.ErrInvalidLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.BuildEnrollmentURI(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildEnrollmentURI_RoundTrip(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	uri, err := totp.BuildEnrollmentURI(totp.Params{
		Secret:      secret,
		AccountName: "a@b.com",
		Issuer:      "LexCase",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", parsed.Scheme)
	assert.Equal(t, "totp", parsed.Host)
	assert.Equal(t, secret, parsed.Query().Get("secret"))
	assert.Equal(t, "LexCase", parsed.Query().Get("issuer"))
}

func TestEnrollmentImage(t *testing.T) {
	t.Parallel()

	uri := "otpauth://totp/LexCase:a@b.com?secret=ABCDEFGHIJKLMNOP&issuer=LexCase"

	t.Run("png data url", func(t *testing.T) {
		t.Parallel()
		img, err := totp.EnrollmentImage(uri, 0)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(img, "data:image/png;base64,"))

		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(img, "data:image/png;base64,"))
		require.NoError(t, err)
		assert.Equal(t, []byte("\x89PNG"), raw[:4])
	})

	t.Run("svg markup", func(t *testing.T) {
		t.Parallel()
		svg, err := totp.EnrollmentSVG(uri, 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(svg, "<svg"))
		assert.Contains(t, svg, `width="256"`)
	})

	t.Run("encoder failure is generic", func(t *testing.T) {
		t.Parallel()
		_, err := totp.EnrollmentImage("   ", 0)
		require.Error(t, err)
		assert.Equal(t, totp.ErrEnrollmentImage, err)

		_, err = totp.EnrollmentSVG("", 0)
		assert.Equal(t, totp.ErrEnrollmentImage, err)
	})
}
