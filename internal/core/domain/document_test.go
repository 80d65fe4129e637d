package domain

import "testing"

func TestMaintenanceFormInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   MaintenanceFormInput
		wantErr bool
	}{
		{
			name: "valid DA2404",
			input: MaintenanceFormInput{
				PropertyID:      3,
				RecipientUserID: 8,
				FormType:        FormSubtypeDA2404,
				Description:     "quarterly service",
			},
			wantErr: false,
		},
		{
			name: "valid DA5988E",
			input: MaintenanceFormInput{
				PropertyID:      3,
				RecipientUserID: 8,
				FormType:        FormSubtypeDA5988E,
				Description:     "fault found",
			},
			wantErr: false,
		},
		{
			name: "unknown form type",
			input: MaintenanceFormInput{
				PropertyID:      3,
				RecipientUserID: 8,
				FormType:        "DA9999",
				Description:     "x",
			},
			wantErr: true,
		},
		{
			name: "missing description",
			input: MaintenanceFormInput{
				PropertyID:      3,
				RecipientUserID: 8,
				FormType:        FormSubtypeDA2404,
			},
			wantErr: true,
		},
		{
			name: "missing property",
			input: MaintenanceFormInput{
				RecipientUserID: 8,
				FormType:        FormSubtypeDA2404,
				Description:     "x",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidBulkOp(t *testing.T) {
	for _, op := range []string{BulkOpRead, BulkOpArchive, BulkOpDelete} {
		if !ValidBulkOp(op) {
			t.Errorf("ValidBulkOp(%q) = false, want true", op)
		}
	}
	if ValidBulkOp("shred") {
		t.Error("ValidBulkOp should reject unknown operations")
	}
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		expected string
	}{
		{"rank and name", &User{Rank: "SGT", Name: "Alex Reyes"}, "SGT Alex Reyes"},
		{"name only", &User{Name: "Alex Reyes"}, "Alex Reyes"},
		{"nil user", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUserConnection_PeerID(t *testing.T) {
	c := &UserConnection{UserID: 4, ConnectedUserID: 11}

	if got := c.PeerID(4); got != 11 {
		t.Errorf("PeerID(4) = %d, want 11", got)
	}
	if got := c.PeerID(11); got != 4 {
		t.Errorf("PeerID(11) = %d, want 4", got)
	}
}
