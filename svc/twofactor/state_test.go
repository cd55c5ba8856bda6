package twofactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  *Record
		want State
	}{
		{name: "no record", rec: nil, want: StateNotSetUp},
		{name: "pending", rec: &Record{}, want: StatePendingVerification},
		{name: "enabled", rec: &Record{Verified: true, Enabled: true}, want: StateEnabled},
		{name: "disabled", rec: &Record{Verified: true}, want: StateDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, stateOf(tt.rec))
		})
	}
}

func TestTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from    State
		event   Event
		want    State
		wantErr error
	}{
		{from: StateNotSetUp, event: EventSetup, want: StatePendingVerification},
		{from: StateNotSetUp, event: EventConfirm, wantErr: ErrNotSetUp},
		{from: StateNotSetUp, event: EventDisable, wantErr: ErrNotSetUp},
		{from: StatePendingVerification, event: EventSetup, want: StatePendingVerification},
		{from: StatePendingVerification, event: EventConfirm, want: StateEnabled},
		{from: StatePendingVerification, event: EventDisable, wantErr: ErrNotSetUp},
		{from: StateEnabled, event: EventSetup, wantErr: ErrAlreadyEnabled},
		{from: StateEnabled, event: EventConfirm, wantErr: ErrAlreadyVerified},
		{from: StateEnabled, event: EventDisable, want: StateDisabled},
		{from: StateDisabled, event: EventSetup, want: StatePendingVerification},
		{from: StateDisabled, event: EventConfirm, wantErr: ErrNotSetUp},
		{from: StateDisabled, event: EventDisable, wantErr: ErrNotSetUp},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			t.Parallel()
			got, err := transition(tt.from, tt.event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, got, "refused events keep the state")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
