package dump

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/cmd/pocotype/internal/config"
	"github.com/broady/pocotype/snapshot"
)

func TestCmd_Run(t *testing.T) {
	out := filepath.Join(t.TempDir(), "build", "shop")
	flags := &config.Flags{Config: config.DefaultFile, NoColor: true}
	cmd := &Cmd{
		Overrides: config.Overrides{
			Packages:  []string{"../pipeline/testdata/shop"},
			Exclude:   []string{"Audit"},
			MaxErrors: -1,
		},
		Out:          out,
		Format:       []string{"json", "msgpack"},
		Exchangeable: true,
	}
	require.NoError(t, cmd.Run(context.Background(), flags))

	for _, f := range []snapshot.Format{snapshot.FormatJSON, snapshot.FormatMsgpack} {
		data, err := os.ReadFile(out + f.Ext())
		require.NoError(t, err)
		s, err := snapshot.Decode(data, f)
		require.NoError(t, err)

		pkg := "github.com/broady/pocotype/cmd/pocotype/internal/pipeline/testdata/shop"
		assert.NotNil(t, s.Find(pkg+".ILineItem"), f)
		assert.NotNil(t, s.Find(pkg+".Money"), f)
		assert.Nil(t, s.Find(pkg+".Audit"), "excluded types are not exchangeable")
		assert.Nil(t, s.Find(pkg+".IOrder"), "IOrder references Audit")
	}

	cmd.NoClobber = true
	assert.ErrorContains(t, cmd.Run(context.Background(), flags), "already exists")
}

func TestCmd_Run_BadFormat(t *testing.T) {
	flags := &config.Flags{Config: config.DefaultFile}
	cmd := &Cmd{
		Overrides: config.Overrides{Packages: []string{"../pipeline/testdata/shop"}, MaxErrors: -1},
		Out:       filepath.Join(t.TempDir(), "shop"),
		Format:    []string{"yaml"},
	}
	assert.Error(t, cmd.Run(context.Background(), flags))
}
