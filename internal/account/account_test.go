package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/twistle/assets"
	"github.com/robalobadob/twistle/internal/database"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "acct.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return NewRepo(db).WithCost(bcrypt.MinCost)
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	u, err := r.Create(ctx, "  Word Smith ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Word Smith", u.Username)
	assert.NotEmpty(t, u.ID)

	_, err = r.Create(ctx, "word smith", "another password")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := r.Authenticate(ctx, "WORD SMITH", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.Authenticate(ctx, "Word Smith", "wrong password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = r.Authenticate(ctx, "Nobody", "correct horse")
	assert.ErrorIs(t, err, ErrBadCredentials)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, byID.Username)
	assert.WithinDuration(t, u.CreatedAt, byID.CreatedAt, time.Second)

	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateValidates(t *testing.T) {
	r := newRepo(t)
	_, err := r.Create(context.Background(), "x", "long enough")
	assert.ErrorIs(t, err, ErrNameTooShort)
	_, err = r.Create(context.Background(), "Valid Name", "short")
	assert.ErrorIs(t, err, ErrPasswordLength)
}

func TestValidateScreenName(t *testing.T) {
	cases := []struct {
		name string
		want error
	}{
		{"Al", nil},
		{"jane.doe-99_x", nil},
		{"Zoë Ng", nil},
		{"A", ErrNameTooShort},
		{" A ", ErrNameTooShort},
		{"abcdefghijklmnopqrstu", ErrNameTooLong},
		{"shit", ErrNameProfane},
		{"heyyy", ErrNameRepeats},
		{"a+b", ErrNameCharacters},
		{"hi!", ErrNameCharacters},
	}
	for _, c := range cases {
		err := ValidateScreenName(c.name)
		if c.want == nil {
			assert.NoError(t, err, c.name)
		} else {
			assert.ErrorIs(t, err, c.want, c.name)
		}
	}
}

func TestTokens(t *testing.T) {
	tk := NewTokens("secret", time.Hour)
	s, exp, err := tk.Sign("id-1", "Al")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := tk.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, Claims{ID: "id-1", Username: "Al"}, c)

	_, err = NewTokens("other", time.Hour).Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tk.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	tk.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tk.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}
