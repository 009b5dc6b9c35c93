package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"

	"github.com/bbrhub/mailblast/internal/storage/sendlogrepo"
	"github.com/bbrhub/mailblast/pkg/logger"
	"github.com/bbrhub/mailblast/pkg/mailclient"
	"github.com/bbrhub/mailblast/pkg/ratelimit"
	"github.com/bbrhub/mailblast/pkg/render"
	"github.com/bbrhub/mailblast/pkg/validator"
)

// ClientFactory opens a mail session for one credential. The default service
// opens exactly one per batch and one per test send.
type ClientFactory func(cred mailclient.Credential, profile mailclient.ServerProfile) (mailclient.Client, error)

type DefaultServiceConfig struct {
	UIDGen     *sonyflake.Sonyflake `validate:"required"`
	SendLog    sendlogrepo.Repo     `validate:"required"`
	Cooldown   *ratelimit.Cooldown  `validate:"required"`
	NewClient  ClientFactory        `validate:"required"`
	PerFileMax int64                `validate:"-"`
	TotalMax   int64                `validate:"-"`
}

type DefaultService struct {
	Config DefaultServiceConfig

	mu     sync.Mutex
	active *BatchHandle
}

var _ Service = (*DefaultService)(nil)

func New(dep DefaultServiceConfig) (*DefaultService, error) {
	if err := validator.Validate(dep); err != nil {
		return nil, err
	}

	if dep.PerFileMax <= 0 {
		dep.PerFileMax = mailclient.DefaultPerFileMax
	}

	if dep.TotalMax <= 0 {
		dep.TotalMax = mailclient.DefaultTotalMax
	}

	return &DefaultService{
		Config: dep,
	}, nil
}

// StartBatch validates everything that can fail locally, then hands the batch
// to a worker goroutine. Nothing touches the network before validation passes,
// so a bad attachment or a malformed recipient row never produces a half-sent
// batch.
func (d *DefaultService) StartBatch(ctx context.Context, in InputStartBatch) (handle *BatchHandle, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	err = in.Profile.Validate()
	if err != nil {
		return
	}

	parts, err := mailclient.LoadAttachments(in.Attachments, d.Config.PerFileMax, d.Config.TotalMax)
	if err != nil {
		return
	}

	batchID, err := d.nextBatchID("BATCH")
	if err != nil {
		return
	}

	handle = newBatchHandle(batchID, len(in.Recipients))

	// One session at a time: a previous batch must fully release its
	// connection before a new one dials.
	d.mu.Lock()
	if prev := d.active; prev != nil {
		prev.Cancel()
		<-prev.finished
	}
	d.active = handle
	d.mu.Unlock()

	go d.runBatch(ctx, in, parts, handle)
	return
}

func (d *DefaultService) runBatch(ctx context.Context, in InputStartBatch, parts []mailclient.Part, handle *BatchHandle) {
	defer close(handle.finished)
	defer close(handle.progress)

	logger.Info(ctx, "batch started",
		logger.KV("batch_id", handle.batchID),
		logger.KV("sender", in.Credential.Address),
		logger.KV("recipients", len(in.Recipients)),
	)

	handle.setState(StateConnecting)

	client, err := d.Config.NewClient(in.Credential, in.Profile)
	if err == nil {
		err = client.Connect(ctx)
	}

	if err != nil {
		if client != nil {
			_ = client.Close()
		}

		handle.setState(StateFatalError)
		outcome := Outcome{
			State:   StateFatalError,
			Message: fatalMessage(err),
			Err:     err,
		}

		logger.Error(ctx, "batch aborted before first send",
			logger.KV("batch_id", handle.batchID),
			logger.KV("error", err.Error()),
		)
		handle.done <- outcome
		return
	}

	handle.setState(StateSending)

	var succeeded, failed int
	cancelled := false

	for i, rec := range in.Recipients {
		if handle.cancelled() || ctx.Err() != nil {
			cancelled = true
			break
		}

		data := render.Merge(in.DefaultData, rec.Vars, map[string]string{"name": rec.Name})
		subject, body := render.Render(in.Template, data)

		ok, detail := client.Send(ctx, rec.Address, subject, body, parts)

		status := sendlogrepo.StatusSuccess
		errDetail := ""
		if ok {
			succeeded++
		} else {
			failed++
			status = sendlogrepo.StatusFailure
			errDetail = detail
		}

		handle.progress <- ProgressEvent{
			Position:    i + 1,
			Recipient:   rec.Address,
			Status:      status,
			ErrorDetail: errDetail,
		}

		_, logErr := d.Config.SendLog.Append(ctx, sendlogrepo.SendLog{
			BatchID:        handle.batchID,
			SenderEmail:    in.Credential.Address,
			RecipientEmail: rec.Address,
			RecipientName:  rec.Name,
			Subject:        subject,
			Status:         status,
			ErrorMessage:   errDetail,
			SendTime:       time.Now().UTC(),
		})
		if logErr != nil {
			logger.Error(ctx, "send log append error",
				logger.KV("batch_id", handle.batchID),
				logger.KV("recipient", rec.Address),
				logger.KV("error", logErr.Error()),
			)
		}
	}

	closeErr := client.Close()
	if closeErr != nil {
		logger.Warn(ctx, "session close error",
			logger.KV("batch_id", handle.batchID),
			logger.KV("error", closeErr.Error()),
		)
	}

	outcome := Outcome{
		Succeeded: succeeded,
		Failed:    failed,
	}

	if cancelled {
		handle.setState(StateCancelled)
		outcome.State = StateCancelled
		outcome.Message = fmt.Sprintf("batch cancelled after %d of %d recipients", succeeded+failed, len(in.Recipients))
	} else {
		handle.setState(StateCompleted)
		outcome.State = StateCompleted
		outcome.Message = fmt.Sprintf("batch finished: %d sent, %d failed", succeeded, failed)
	}

	logger.Info(ctx, "batch finished",
		logger.KV("batch_id", handle.batchID),
		logger.KV("state", outcome.State.String()),
		logger.KV("succeeded", succeeded),
		logger.KV("failed", failed),
	)
	handle.done <- outcome
}

// SendTest delivers the rendered template to the sender's own address, gated
// by the shared cooldown. The attempt stamps the cooldown no matter how the
// send itself ends.
func (d *DefaultService) SendTest(ctx context.Context, in InputSendTest) (out OutSendTest, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	err = in.Profile.Validate()
	if err != nil {
		return
	}

	err = d.Config.Cooldown.Allow()
	if err != nil {
		return
	}

	parts, err := mailclient.LoadAttachments(in.Attachments, d.Config.PerFileMax, d.Config.TotalMax)
	if err != nil {
		return
	}

	batchID, err := d.nextBatchID("TEST")
	if err != nil {
		return
	}

	client, err := d.Config.NewClient(in.Credential, in.Profile)
	if err == nil {
		err = client.Connect(ctx)
	}

	if err != nil {
		if client != nil {
			_ = client.Close()
		}

		err = fmt.Errorf("%s: %w", fatalMessage(err), err)
		return
	}

	defer func() {
		_ = client.Close()
	}()

	subject, body := render.Render(in.Template, in.TestData)
	ok, detail := client.Send(ctx, in.Credential.Address, subject, body, parts)

	status := sendlogrepo.StatusSuccess
	errDetail := ""
	if !ok {
		status = sendlogrepo.StatusFailure
		errDetail = detail
	}

	_, logErr := d.Config.SendLog.Append(ctx, sendlogrepo.SendLog{
		BatchID:        batchID,
		SenderEmail:    in.Credential.Address,
		RecipientEmail: in.Credential.Address,
		RecipientName:  "test",
		Subject:        subject,
		Status:         status,
		ErrorMessage:   errDetail,
		SendTime:       time.Now().UTC(),
	})
	if logErr != nil {
		logger.Error(ctx, "send log append error",
			logger.KV("batch_id", batchID),
			logger.KV("error", logErr.Error()),
		)
	}

	out = OutSendTest{
		OK:      ok,
		Message: detail,
	}
	return
}

func (d *DefaultService) nextBatchID(prefix string) (string, error) {
	id, err := d.Config.UIDGen.NextID()
	if err != nil {
		return "", fmt.Errorf("cannot get next id: %w", err)
	}

	return fmt.Sprintf("%s_%d", prefix, id), nil
}

// fatalMessage keeps the operator-facing text actionable: a rejected login
// points at the authorization code, anything else at connectivity.
func fatalMessage(err error) string {
	switch {
	case errors.Is(err, mailclient.ErrAuthentication):
		return "authentication rejected, check the sender's authorization code"
	case errors.Is(err, mailclient.ErrConnection):
		return "cannot reach the mail server, check network and server settings"
	default:
		return "cannot open mail session"
	}
}
