package drivers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// The portals are server-rendered admin panels with unstable markup, so
// controls are located by visible text rather than brittle selectors.

// jsStringArray renders a Go string slice as a JS array literal.
func jsStringArray(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

// ClickByText clicks the first element matching selector whose text
// contains any of the given fragments (case-insensitive). Returns whether
// a control was found and clicked.
func ClickByText(ctx context.Context, selector string, fragments []string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const fragments = %s;
		const els = Array.from(document.querySelectorAll(%q));
		const target = els.find(el => {
			const text = (el.textContent || el.value || '').trim().toLowerCase();
			return fragments.some(f => text.includes(f));
		});
		if (target) { target.click(); return true; }
		return false;
	})()`, jsStringArray(fragments), selector)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

// ClickFirst clicks the first element matching selector.
func ClickFirst(ctx context.Context, selector string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (el) { el.click(); return true; }
		return false;
	})()`, selector)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

// ClickByExactText clicks the first element matching selector whose
// trimmed text equals any of the given values (case-insensitive).
func ClickByExactText(ctx context.Context, selector string, values []string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const values = %s;
		const els = Array.from(document.querySelectorAll(%q));
		const target = els.find(el => {
			const text = (el.textContent || el.value || '').trim().toLowerCase();
			return values.includes(text);
		});
		if (target) { target.click(); return true; }
		return false;
	})()`, jsStringArray(values), selector)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

// ClickWithRetry retries a click a few times with a one-second pause;
// admin panels frequently render controls a beat after the page settles.
func ClickWithRetry(ctx context.Context, attempts int, click func(context.Context) (bool, error)) bool {
	for attempt := 1; attempt <= attempts; attempt++ {
		clicked, err := click(ctx)
		if err == nil && clicked {
			return true
		}
		if err != nil {
			slog.Debug("driver: click attempt failed", "attempt", attempt, "error", err)
		}
		if attempt < attempts {
			_ = chromedp.Run(ctx, chromedp.Sleep(time.Second))
		}
	}
	return false
}

// HasAuthMarkers reports whether the page shows a logout or search
// affordance, the cheapest reliable signal of an authenticated session.
func HasAuthMarkers(ctx context.Context) (bool, error) {
	const script = `(() => {
		const els = Array.from(document.querySelectorAll('a, button'));
		const hasLogout = els.some(el => {
			const text = (el.textContent || '').toLowerCase();
			return text.includes('logout') || text.includes('sign out');
		});
		const hasSearch = els.some(el => {
			const text = (el.textContent || '').toLowerCase();
			const href = el.href || '';
			return text.includes('search') || href.includes('search');
		});
		return hasLogout || hasSearch;
	})()`

	var loggedIn bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &loggedIn)); err != nil {
		return false, err
	}
	return loggedIn, nil
}

// SetInputValue writes a value into the idx-th input matching selector
// and fires input/change events so framework-bound forms notice.
func SetInputValue(ctx context.Context, selector string, idx int, value string) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const inputs = document.querySelectorAll(%q);
		if (inputs.length <= %d) return false;
		const input = inputs[%d];
		input.focus();
		input.value = %q;
		input.dispatchEvent(new Event('input', { bubbles: true }));
		input.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, selector, idx, idx, value)

	var set bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &set)); err != nil {
		return false, err
	}
	return set, nil
}

// LastVisibleInputIndex finds the last visible, enabled text input on the
// page. Sidebar quick-search boxes come first in DOM order; the main
// content form is the last visible one.
func LastVisibleInputIndex(ctx context.Context) (int, error) {
	const script = `(() => {
		const all = Array.from(document.querySelectorAll('input[type="text"]'));
		const visible = all.filter(input => {
			const rect = input.getBoundingClientRect();
			const style = window.getComputedStyle(input);
			return rect.width > 0 && rect.height > 0 &&
				style.display !== 'none' && style.visibility !== 'hidden' &&
				!input.disabled;
		});
		if (visible.length === 0) return 0;
		return all.indexOf(visible[visible.length - 1]);
	})()`

	var idx int
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &idx)); err != nil {
		return 0, err
	}
	return idx, nil
}

// HasTable reports whether any table rendered on the current page.
func HasTable(ctx context.Context) (bool, error) {
	var has bool
	err := chromedp.Run(ctx, chromedp.Evaluate(`document.querySelectorAll('table').length > 0`, &has))
	return has, err
}

// AllTablesHTML returns the concatenated markup of every table on the
// page for offline row parsing.
func AllTablesHTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.Evaluate(
		`Array.from(document.querySelectorAll('table')).map(t => t.outerHTML).join('')`, &html))
	return html, err
}

// Settle pauses for a grace period so in-flight table reloads finish.
// The portals give no reliable load event after in-page searches.
func Settle(ctx context.Context, grace time.Duration) {
	_ = chromedp.Run(ctx, chromedp.Sleep(grace))
}

// CaptureScreenshot uploads a full-page capture for troubleshooting.
// Never fails the scrape.
func CaptureScreenshot(ctx context.Context, env Env, name string) {
	if env.Screenshots == nil {
		return
	}

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		slog.Warn("driver: screenshot capture failed", "name", name, "error", err)
		return
	}

	url, err := env.Screenshots.Put(ctx, name, buf, "image/png")
	if err != nil {
		slog.Warn("driver: screenshot upload failed", "name", name, "error", err)
		return
	}
	slog.Debug("driver: screenshot saved", "name", name, "url", url)
}

// ClickNextPager advances the results pager if a next control exists.
// Pagers vary across portals: some render ">"/">>" arrows, some a "next"
// link, some only numbered page buttons. The numbered fallback clicks the
// page one past the current maximum, which the portals render once the
// current page is the last visible one.
func ClickNextPager(ctx context.Context) (bool, error) {
	const script = `(() => {
		const buttons = Array.from(document.querySelectorAll('button, a, [role="button"]'));

		const nextBtn = buttons.find(btn => {
			const text = (btn.textContent || '').trim();
			const title = (btn.title || '').toLowerCase();
			return text === '>' || text === '>>' || text.toLowerCase() === 'next' || title.includes('next');
		});

		let numberedNextBtn = null;
		const pageButtons = buttons.filter(btn => /^\d+$/.test((btn.textContent || '').trim()));
		if (pageButtons.length > 0) {
			const pageNums = pageButtons.map(b => parseInt((b.textContent || '').trim()));
			const maxPage = Math.max(...pageNums);
			numberedNextBtn = pageButtons.find(b => parseInt((b.textContent || '').trim()) === maxPage + 1);
		}

		const target = nextBtn || numberedNextBtn;
		if (target) { target.click(); return true; }
		return false;
	})()`

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

// FillOptionalDateTimeInputs fills native date/time inputs when a window
// was requested. Portals without those inputs are filtered in-process
// after extraction instead.
func FillOptionalDateTimeInputs(ctx context.Context, fromDate, fromTime, toTime string) {
	if fromDate != "" {
		if _, err := SetInputValue(ctx, `input[type="date"]`, 0, fromDate); err != nil {
			slog.Debug("driver: date input fill failed", "error", err)
		}
	}
	if fromTime != "" {
		if _, err := SetInputValue(ctx, `input[type="time"]`, 0, fromTime); err != nil {
			slog.Debug("driver: from-time input fill failed", "error", err)
		}
	}
	if toTime != "" {
		if _, err := SetInputValue(ctx, `input[type="time"]`, 1, toTime); err != nil {
			slog.Debug("driver: to-time input fill failed", "error", err)
		}
	}
}
