package common_test

import (
	"testing"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common"
)

func TestConfig_New(t *testing.T) {
	type fields struct {
		Type  string
		Path  string
		Debug bool
	}
	tests := []struct {
		name    string
		fields  fields
		wantErr bool
	}{
		{
			name:   "boltdb",
			fields: fields{Type: "boltdb", Path: "winshield.db"},
		},
		{
			name:   "redis",
			fields: fields{Type: "redis", Path: "127.0.0.1:6379"},
		},
		{
			name:   "sqlite3",
			fields: fields{Type: "sqlite3", Path: "winshield.sqlite3"},
		},
		{
			name:   "mysql",
			fields: fields{Type: "mysql", Path: "user:pass@tcp(127.0.0.1:3306)/winshield"},
		},
		{
			name:   "postgres",
			fields: fields{Type: "postgres", Path: "host=127.0.0.1 user=user dbname=winshield"},
		},
		{
			name:    "unknown dbtype",
			fields:  fields{Type: "leveldb", Path: "winshield.db"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &common.Config{
				Type:  tt.fields.Type,
				Path:  tt.fields.Path,
				Debug: tt.fields.Debug,
			}
			got, err := c.New()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got == nil {
				t.Errorf("Config.New() = nil, want connection")
			}
		})
	}
}
