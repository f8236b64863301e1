package main

import (
	"context"
	"strings"

	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/sheets/excel"
	"github.com/reallyasi9/weeklypicks/internal/sheets/google"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const sheetsScheme = "sheets://"

func (g *globalCmd) clientOptions() []option.ClientOption {
	if g.Credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(g.Credentials)}
}

// openStore opens the configured store. The returned function releases it.
func (g *globalCmd) openStore(ctx context.Context) (sheets.Store, func(), error) {
	if id, ok := strings.CutPrefix(g.Store, sheetsScheme); ok {
		s, err := google.New(ctx, id, g.clientOptions()...)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
	s, err := excel.Open(ctx, g.Store)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("location", s.Location()).Msg("Workbook opened")
	return s, func() { s.Close() }, nil
}
