// Package browser drives the member portal with a headless browser to
// capture the events API bearer token from network traffic.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"foresterswatch/internal/domain"
)

// Selectors on the member portal. The portal is not ours, so these are the
// one part of the watcher that can silently rot; keep them in one place.
const (
	usernameSelector = `#signInName`
	passwordSelector = `#password`
	submitSelector   = `button#next`
	consentSelector  = `#onetrust-accept-btn-handler`

	memberBenefitsLink = `a[href*="member-benefits"]`
	activitySearchLink = `a[href*="activity-search"]`
)

// consentWait bounds the dismissal of the cookie banner. The banner is
// optional; its absence is normal.
const consentWait = 5 * time.Second

// Config holds settings for the token acquirer.
type Config struct {
	LoginURL string
	// HostPattern matches request URLs whose Authorization header is the
	// token we want.
	HostPattern string
	// TokenTimeout bounds the whole login-to-capture flow.
	TokenTimeout time.Duration
	// Headful disables headless mode for local debugging.
	Headful bool
}

// TokenAcquirer implements domain.TokenAcquirer with chromedp.
type TokenAcquirer struct {
	cfg    Config
	logger *slog.Logger
}

// NewTokenAcquirer returns a TokenAcquirer for the given portal.
func NewTokenAcquirer(cfg Config, logger *slog.Logger) *TokenAcquirer {
	return &TokenAcquirer{cfg: cfg, logger: logger}
}

// AcquireToken logs into the portal, dismisses the cookie banner if one
// appears, navigates to the activity search (which opens in a new browser
// tab) and watches that tab's network traffic for an Authorization header
// on a request to the API host. It returns the captured bearer token, or
// an error wrapping domain.ErrTokenNotCaptured when the bounded wait
// elapses first.
func (a *TokenAcquirer) AcquireToken(ctx context.Context, creds domain.Credentials) (string, error) {
	if creds.Username == "" || creds.Password == "" {
		return "", domain.ErrMissingCredentials
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	if a.cfg.Headful {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	deadline := a.cfg.TokenTimeout
	if deadline <= 0 {
		deadline = 60 * time.Second
	}
	browserCtx, cancelDeadline := context.WithTimeout(browserCtx, deadline)
	defer cancelDeadline()

	if err := a.login(browserCtx, creds); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	a.dismissConsent(browserCtx)

	// The activity search opens in a new tab; register the listener
	// before clicking so the target cannot be missed.
	newTarget := chromedp.WaitNewTarget(browserCtx, func(info *target.Info) bool {
		return info.Type == "page" && info.URL != ""
	})

	err := chromedp.Run(browserCtx,
		chromedp.WaitVisible(memberBenefitsLink, chromedp.ByQuery),
		chromedp.Click(memberBenefitsLink, chromedp.ByQuery),
		chromedp.WaitVisible(activitySearchLink, chromedp.ByQuery),
		chromedp.Click(activitySearchLink, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("navigation to activity search failed: %w", err)
	}

	var targetID target.ID
	select {
	case targetID = <-newTarget:
	case <-browserCtx.Done():
		return "", fmt.Errorf("activity search tab never opened: %w", domain.ErrTokenNotCaptured)
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx, chromedp.WithTargetID(targetID))
	defer cancelTab()

	token := make(chan string, 1)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		req, ok := ev.(*network.EventRequestWillBeSent)
		if !ok || !strings.Contains(req.Request.URL, a.cfg.HostPattern) {
			return
		}
		auth, ok := req.Request.Headers["Authorization"].(string)
		if !ok || !strings.HasPrefix(auth, "Bearer ") {
			return
		}
		select {
		case token <- strings.TrimPrefix(auth, "Bearer "):
		default:
		}
	})

	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		return "", fmt.Errorf("enabling network capture failed: %w", err)
	}

	select {
	case t := <-token:
		a.logger.Debug("bearer token captured", "host", a.cfg.HostPattern)
		return t, nil
	case <-tabCtx.Done():
		return "", fmt.Errorf("no authorization header seen for %s: %w", a.cfg.HostPattern, domain.ErrTokenNotCaptured)
	}
}

func (a *TokenAcquirer) login(ctx context.Context, creds domain.Credentials) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(a.cfg.LoginURL),
		chromedp.WaitVisible(usernameSelector, chromedp.ByQuery),
		chromedp.SendKeys(usernameSelector, creds.Username, chromedp.ByQuery),
		chromedp.SendKeys(passwordSelector, creds.Password, chromedp.ByQuery),
		chromedp.Click(submitSelector, chromedp.ByQuery),
		// The portal lands on the member dashboard after a successful
		// sign-in; a wrong password keeps us on the login form and the
		// wait below times out.
		chromedp.WaitVisible(memberBenefitsLink, chromedp.ByQuery),
	)
}

// dismissConsent clicks the cookie banner away if it shows up within
// consentWait. The banner not appearing is not an error.
func (a *TokenAcquirer) dismissConsent(ctx context.Context) {
	waitCtx, cancel := context.WithTimeout(ctx, consentWait)
	defer cancel()
	err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(consentSelector, chromedp.ByQuery),
		chromedp.Click(consentSelector, chromedp.ByQuery),
	)
	if err != nil {
		a.logger.Debug("consent banner not dismissed", "err", err)
	}
}
