package notify

import (
	"context"
	"errors"
	"time"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	enterpriseDomain "pass-iae-backend/internal/domain/enterprise"
	hiringDomain "pass-iae-backend/internal/domain/hiring"
	"pass-iae-backend/internal/domain/notification"
	peapprovalDomain "pass-iae-backend/internal/domain/peapproval"
	prescriberDomain "pass-iae-backend/internal/domain/prescriber"
	userDomain "pass-iae-backend/internal/domain/user"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Usecase drives the notification state machine: preliminary checks, then
// identity search, then the remote approval registration. Every outcome is
// recorded on the approval so a run is idempotent and resumable.
type Usecase struct {
	approvals   approvalDomain.Repository
	peApprovals peapprovalDomain.Repository
	users       userDomain.Directory
	hires       hiringDomain.Ledger
	enterprises enterpriseDomain.Directory
	prescribers prescriberDomain.Directory
	client      Client
	log         zerolog.Logger

	Now func() time.Time
}

func NewUsecase(
	approvals approvalDomain.Repository,
	peApprovals peapprovalDomain.Repository,
	users userDomain.Directory,
	hires hiringDomain.Ledger,
	enterprises enterpriseDomain.Directory,
	prescribers prescriberDomain.Directory,
	client Client,
	log zerolog.Logger,
) *Usecase {
	return &Usecase{
		approvals:   approvals,
		peApprovals: peApprovals,
		users:       users,
		hires:       hires,
		enterprises: enterprises,
		prescribers: prescribers,
		client:      client,
		log:         log,
		Now:         time.Now,
	}
}

// Notify runs the state machine for one approval and records the outcome.
// An approval already notified successfully is left untouched.
func (u *Usecase) Notify(ctx context.Context, a *approvalDomain.Approval) (notification.State, error) {
	if a.Notification.Status == notification.StatusSuccess {
		return a.Notification, nil
	}
	now := u.Now()

	// Preliminary checks, no remote call involved.
	if a.StartAt.After(now) {
		return u.record(ctx, a, notification.Pending(notification.ExitStartsInFuture, now))
	}
	hire, err := u.hires.LastAcceptedForApproval(ctx, a.ID)
	if errors.Is(err, hiringDomain.ErrNotFound) {
		return u.record(ctx, a, notification.Pending(notification.ExitNoJobApplication, now))
	}
	if err != nil {
		return a.Notification, err
	}
	enterprise, err := u.enterprises.GetByID(ctx, hire.EnterpriseID)
	if err != nil {
		return a.Notification, err
	}
	typeCode, ok := enterprise.Kind.RemoteTypeCode()
	if !ok {
		// No remote equivalent exists for this kind: definitive, no retry.
		return u.record(ctx, a, notification.Error("", notification.ExitInvalidSiaeKind, now))
	}
	beneficiary, err := u.users.GetByID(ctx, a.UserID)
	if err != nil {
		return a.Notification, err
	}
	if !beneficiary.HasCompleteIdentity() {
		return u.record(ctx, a, notification.Pending(notification.ExitMissingUserData, now))
	}

	encryptedID, st, err := u.resolveIdentity(ctx, beneficiary, now)
	if err != nil || st != nil {
		if st != nil {
			return u.record(ctx, a, *st)
		}
		return a.Notification, err
	}

	in := RegisterInput{
		EncryptedID:    encryptedID,
		ApprovalNumber: a.Number,
		StartAt:        a.StartAt,
		EndAt:          a.EndAt,
		SiaeSiret:      enterprise.Siret,
		SiaeTypeCode:   typeCode,
		OriginCode:     hire.SenderKind.RemoteOriginCode(),
	}
	if hire.SenderKind == hiringDomain.SenderPrescriber && hire.SenderPrescriberOrgID != nil {
		org, err := u.prescribers.GetByID(ctx, *hire.SenderPrescriberOrgID)
		if err != nil {
			return a.Notification, err
		}
		in.PrescriberTypology = org.Kind.RemoteTypology()
	}

	return u.record(ctx, a, u.register(ctx, in, now))
}

// NotifyLegacy mirrors Notify for approvals imported from the legacy system.
// The hire context is unknown, so the origin is declared as prescriber-sent
// with the employment agency itself as typology.
func (u *Usecase) NotifyLegacy(ctx context.Context, a *peapprovalDomain.PoleEmploiApproval) (notification.State, error) {
	if a.Notification.Status == notification.StatusSuccess {
		return a.Notification, nil
	}
	now := u.Now()

	if a.StartAt.After(now) {
		return u.recordLegacy(ctx, a, notification.Pending(notification.ExitStartsInFuture, now))
	}
	typeCode, ok := a.SiaeKind.RemoteTypeCode()
	if !ok {
		return u.recordLegacy(ctx, a, notification.Error("", notification.ExitInvalidSiaeKind, now))
	}
	if !a.HasCompleteIdentity() {
		return u.recordLegacy(ctx, a, notification.Pending(notification.ExitMissingUserData, now))
	}

	encryptedID, err := u.client.SearchIndividual(ctx, IndividualQuery{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		BirthDate: *a.BirthDate,
		NIR:       a.NIR,
	})
	if err != nil {
		return u.recordLegacy(ctx, a, stateForRemoteError(err, notification.EndpointIdentitySearch, now))
	}

	st := u.register(ctx, RegisterInput{
		EncryptedID:        encryptedID,
		ApprovalNumber:     a.Number,
		StartAt:            a.StartAt,
		EndAt:              a.EndAt,
		SiaeSiret:          a.SiaeSiret,
		SiaeTypeCode:       typeCode,
		OriginCode:         "PRES",
		PrescriberTypology: prescriberDomain.KindPE.RemoteTypology(),
	}, now)
	return u.recordLegacy(ctx, a, st)
}

type SweepInput struct {
	// Limit caps the batch size; DefaultSweepLimit when zero.
	Limit int
	// Delay between two notifications, to stay under the remote rate limits.
	Delay time.Duration
	// WetRun actually calls the remote system. A dry run only reports what
	// would be notified.
	WetRun bool
}

const DefaultSweepLimit = 100

// Sweep notifies a batch of approvals awaiting notification, oldest attempts
// first. Legacy approvals fill whatever the batch budget has left. Returns
// the number of records processed.
func (u *Usecase) Sweep(ctx context.Context, in SweepInput) (int, error) {
	if in.Limit <= 0 {
		in.Limit = DefaultSweepLimit
	}
	batchID := uuid.NewString()
	log := u.log.With().Str("batch_id", batchID).Logger()
	today := u.Now()

	approvals, err := u.approvals.ListNotifiable(ctx, today, in.Limit)
	if err != nil {
		return 0, err
	}
	var legacy []peapprovalDomain.PoleEmploiApproval
	if remaining := in.Limit - len(approvals); remaining > 0 {
		legacy, err = u.peApprovals.ListNotifiable(ctx, today, remaining)
		if err != nil {
			return 0, err
		}
	}
	total := len(approvals) + len(legacy)
	log.Info().Int("count", total).Int("legacy", len(legacy)).Bool("wet_run", in.WetRun).Msg("notification sweep starting")

	processed := 0
	for i := range approvals {
		a := &approvals[i]
		if !in.WetRun {
			log.Info().Str("number", a.Number).Msg("would notify")
			processed++
			continue
		}
		st, err := u.Notify(ctx, a)
		if err != nil {
			log.Error().Err(err).Str("number", a.Number).Msg("notification failed")
			return processed, err
		}
		processed++
		log.Info().Str("number", a.Number).Str("status", string(st.Status)).Msg("notified")
		if err := u.pause(ctx, in.Delay, processed, total); err != nil {
			return processed, err
		}
	}
	for i := range legacy {
		a := &legacy[i]
		if !in.WetRun {
			log.Info().Str("number", a.Number).Msg("would notify legacy")
			processed++
			continue
		}
		st, err := u.NotifyLegacy(ctx, a)
		if err != nil {
			log.Error().Err(err).Str("number", a.Number).Msg("legacy notification failed")
			return processed, err
		}
		processed++
		log.Info().Str("number", a.Number).Str("status", string(st.Status)).Msg("notified legacy")
		if err := u.pause(ctx, in.Delay, processed, total); err != nil {
			return processed, err
		}
	}
	log.Info().Int("count", processed).Msg("notification sweep done")
	return processed, nil
}

// pause spaces out remote calls; no wait after the batch's last record.
func (u *Usecase) pause(ctx context.Context, delay time.Duration, done, total int) error {
	if delay <= 0 || done >= total {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// resolveIdentity returns the cached encrypted identifier or fetches a fresh
// one. A non-nil state means the search failed and the state must be recorded.
func (u *Usecase) resolveIdentity(ctx context.Context, beneficiary *userDomain.User, now time.Time) (string, *notification.State, error) {
	if beneficiary.PEObfuscatedNIR != "" {
		return beneficiary.PEObfuscatedNIR, nil, nil
	}
	encryptedID, err := u.client.SearchIndividual(ctx, IndividualQuery{
		FirstName: beneficiary.FirstName,
		LastName:  beneficiary.LastName,
		BirthDate: *beneficiary.BirthDate,
		NIR:       beneficiary.NIR,
	})
	if err != nil {
		st := stateForRemoteError(err, notification.EndpointIdentitySearch, now)
		return "", &st, nil
	}
	if err := u.users.SaveObfuscatedNIR(ctx, beneficiary.ID, encryptedID, now); err != nil {
		return "", nil, err
	}
	return encryptedID, nil, nil
}

func (u *Usecase) register(ctx context.Context, in RegisterInput, now time.Time) notification.State {
	if err := u.client.RegisterApproval(ctx, in); err != nil {
		return stateForRemoteError(err, notification.EndpointUpdateApproval, now)
	}
	return notification.Success(now)
}

// stateForRemoteError: definitive rejections are terminal errors carrying the
// remote exit code; anything else is transient and retried.
func stateForRemoteError(err error, endpoint notification.Endpoint, now time.Time) notification.State {
	var bad *BadResponseError
	if errors.As(err, &bad) {
		return notification.Error(endpoint, bad.Code, now)
	}
	return notification.ShouldRetry(now)
}

func (u *Usecase) record(ctx context.Context, a *approvalDomain.Approval, st notification.State) (notification.State, error) {
	if err := u.approvals.UpdateNotification(ctx, a.ID, st); err != nil {
		return a.Notification, err
	}
	a.Notification = st
	return st, nil
}

func (u *Usecase) recordLegacy(ctx context.Context, a *peapprovalDomain.PoleEmploiApproval, st notification.State) (notification.State, error) {
	if err := u.peApprovals.UpdateNotification(ctx, a.ID, st); err != nil {
		return a.Notification, err
	}
	a.Notification = st
	return st, nil
}
