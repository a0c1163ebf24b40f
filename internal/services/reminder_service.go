package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rentowl/backend/internal/config"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/repositories"
	"github.com/rentowl/backend/internal/utils"
)

// upcomingReminderDays is how far before the due date the first
// reminder goes out.
const upcomingReminderDays = 3

type ReminderService struct {
	cfg         *config.Config
	tenantRepo  repositories.TenantRepository
	propRepo    repositories.PropertyRepository
	paymentRepo repositories.PaymentRepository

	twClient *twilio.RestClient
	sgClient *sendgrid.Client
}

func NewReminderService(
	cfg *config.Config,
	tenantRepo repositories.TenantRepository,
	propRepo repositories.PropertyRepository,
	paymentRepo repositories.PaymentRepository,
	twClient *twilio.RestClient,
	sgClient *sendgrid.Client,
) *ReminderService {
	return &ReminderService{
		cfg:         cfg,
		tenantRepo:  tenantRepo,
		propRepo:    propRepo,
		paymentRepo: paymentRepo,
		twClient:    twClient,
		sgClient:    sgClient,
	}
}

// RunDailyRentCycle is triggered once per day (around 00:05 UTC). For
// every active tenant whose current rent obligation is fully paid and
// past its due date, it seeds the next month's rent obligation so the
// allocator always has at most one open RENT row to settle against.
func (s *ReminderService) RunDailyRentCycle(ctx context.Context) error {
	utils.Logger.Info("Running daily rent cycle...")

	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, t := range tenants {
		if err := s.rollRentForward(ctx, t, now); err != nil {
			utils.Logger.WithError(err).Errorf("Rent cycle failed for tenant=%s", t.ID)
		}
	}
	return nil
}

func (s *ReminderService) rollRentForward(ctx context.Context, t *models.Tenant, now time.Time) error {
	open, err := s.paymentRepo.FindOpenByType(ctx, t.ID, t.PropertyID, models.PaymentTypeRent)
	if err != nil {
		return err
	}
	if open != nil {
		return nil
	}

	latest, err := s.paymentRepo.FindLatestByType(ctx, t.ID, t.PropertyID, models.PaymentTypeRent)
	if err != nil {
		return err
	}
	if latest == nil || now.Before(latest.DueDate) {
		return nil
	}

	next := &models.Payment{
		ID:         uuid.New(),
		TenantID:   t.ID,
		PropertyID: t.PropertyID,
		Type:       models.PaymentTypeRent,
		Amount:     t.Rent,
		Status:     models.PaymentStatusUnpaid,
		DueDate:    firstOfNextMonth(latest.DueDate),
	}
	if err := s.paymentRepo.Create(ctx, next); err != nil {
		return err
	}
	utils.Logger.Infof("Seeded rent obligation %s for tenant=%s due=%s", next.ID, t.ID, next.DueDate.Format("2006-01-02"))

	// Banked credit settles the new obligation immediately, up to the
	// credit balance.
	if t.Credit <= 0 {
		return nil
	}
	applied := int64(0)
	err = s.paymentRepo.UpdateWithRetry(ctx, next.ID, func(p *models.Payment) error {
		applied = p.Due()
		if t.Credit < applied {
			applied = t.Credit
		}
		applyToObligation(p, applied, now)
		return nil
	})
	if err != nil {
		return err
	}
	return s.tenantRepo.AddCredit(ctx, t.ID, -applied)
}

// RunReminderDispatch sends upcoming-due and overdue notices over SMS
// and email. Evaluated per property in its local timezone, and skipped
// entirely on public holidays.
func (s *ReminderService) RunReminderDispatch(ctx context.Context) error {
	utils.Logger.Info("Running payment reminder dispatch...")

	cutoff := time.Now().UTC().AddDate(0, 0, upcomingReminderDays)
	due, err := s.paymentRepo.ListOpenDueBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	props := map[uuid.UUID]*models.Property{}
	for _, p := range due {
		prop, ok := props[p.PropertyID]
		if !ok {
			prop, err = s.propRepo.GetByID(ctx, p.PropertyID)
			if err != nil {
				utils.Logger.WithError(err).Errorf("Failed to load property=%s for reminders", p.PropertyID)
				continue
			}
			if prop == nil {
				continue
			}
			props[p.PropertyID] = prop
		}

		localNow := time.Now().In(propertyLocation(prop))
		if utils.IsKenyanHoliday(localNow) {
			utils.Logger.Debugf("Holiday in %s, skipping reminders for property=%s", prop.TimeZone, prop.ID)
			continue
		}

		tenant, err := s.tenantRepo.GetByID(ctx, p.TenantID)
		if err != nil || tenant == nil || tenant.MovedOutAt != nil {
			continue
		}
		s.notifyTenant(tenant, prop, p, localNow)
	}
	return nil
}

func (s *ReminderService) notifyTenant(t *models.Tenant, prop *models.Property, p *models.Payment, localNow time.Time) {
	kind := "upcoming"
	if localNow.After(p.DueDate) {
		kind = "overdue"
	}
	subject := fmt.Sprintf("%s payment %s for unit %s", p.Type, kind, t.UnitLabel)
	body := fmt.Sprintf(
		"Hello %s, your %s payment of KES %d for unit %s at %s is %s (due %s). Outstanding balance: KES %d.",
		t.FirstName, p.Type, p.Amount, t.UnitLabel, prop.Name, kind,
		p.DueDate.Format("2 Jan 2006"), p.Due(),
	)

	if s.twClient != nil && t.PhoneNumber != nil {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(*t.PhoneNumber)
		params.SetFrom(s.cfg.TwilioFromPhone)
		params.SetBody(body)
		if _, smsErr := s.twClient.Api.CreateMessage(params); smsErr != nil {
			utils.Logger.WithError(smsErr).Warnf("Failed to send reminder SMS to tenant %s", t.ID)
		}
	}

	if s.sgClient != nil && t.Email != "" {
		from := mail.NewEmail("RentOwl", s.cfg.SendGridFromEmail)
		to := mail.NewEmail(t.FirstName+" "+t.LastName, t.Email)
		msg := mail.NewSingleEmail(from, subject, to, body, "<p>"+body+"</p>")
		msg.TrackingSettings = &mail.TrackingSettings{
			ClickTracking: &mail.ClickTrackingSetting{
				Enable: utils.Ptr(false),
			},
		}
		if s.cfg.SendGridSandbox {
			ms := mail.NewMailSettings()
			ms.SetSandboxMode(mail.NewSetting(true))
			msg.MailSettings = ms
		}
		if _, sgErr := s.sgClient.Send(msg); sgErr != nil {
			utils.Logger.WithError(sgErr).Warnf("Failed to send reminder email to tenant %s", t.ID)
		}
	}
}

func propertyLocation(p *models.Property) *time.Location {
	tz := p.TimeZone
	if tz == "" {
		tz = DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.FixedZone("EAT", 3*3600)
	}
	return loc
}
