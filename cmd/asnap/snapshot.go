package main

import (
	"context"
	"strings"
	"time"

	"github.com/oceandatatools/sealog-relay/pkg/configs/asnap"
	"github.com/oceandatatools/sealog-relay/pkg/sealog"
	apievents "github.com/oceandatatools/sealog-relay/pkg/sealog/api/events"
	"github.com/oceandatatools/sealog-relay/pkg/utils/isotime"
)

// snapshot posts one ASNAP event, unless the status variable is off.
//
// A failing status lookup is an error: without a readable flag we must
// not post, so the caller skips the cycle.
func snapshot(ctx context.Context, client sealog.Client, conf *asnap.Config) error {
	status, err := client.GetCustomVar(ctx, conf.StatusVar)
	if err != nil {
		return err
	}
	if !strings.EqualFold(status.Value, "on") {
		return nil
	}

	_, err = client.PostEvent(ctx, apievents.Event{
		Timestamp: isotime.New(time.Now().UTC()),
		Author:    conf.Author,
		Value:     "ASNAP",
	})
	return err
}
