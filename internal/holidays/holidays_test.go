package holidays

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"timetrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const websitePage = `<html><head>
<script>var analytics = {es: ['ignored']};</script>
<script>
  const holidays2025 = [
    {
      es: [
        { date: '01/01/2025', label: 'Año nuevo', type: 'inamovible', },
        { date: '03/03/2025', label: 'Carnaval', type: 'inamovible' },
        { date: '02/05/2025', label: 'Feriado con fines turísticos', type: 'turistico' },
        { date: '17/06/2025', label: "Paso a la Inmortalidad del General D. Martín Miguel de Güemes", type: 'trasladable' },
        { date: '24/03/2025', label: 'Día Nacional de la Memoria', type: 'no_laborable' },
        { date: '25/12/2025', label: 'Navidad', type: 'religioso' },
        { date: '31/12/2024', label: 'Otro año', type: 'inamovible' },
        { date: '2025-07-09', label: 'Bad date', type: 'inamovible' },
        { label: 'Sin fecha', type: 'inamovible' },
      ],
      en: [
        { date: '01/01/2025', label: 'New year', type: 'inamovible' },
      ]
    }
  ];
</script></head><body></body></html>`

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestWebsiteProviderScript(t *testing.T) {
	var userAgent, path string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.UserAgent()
		path = r.URL.Path
		_, _ = w.Write([]byte(websitePage))
	})

	provider := NewWebsiteProvider(srv.URL+"/feriados-{year}", srv.Client())
	got := provider.GetHolidays(context.Background(), 2025)

	assert.Equal(t, "/feriados-2025", path)
	assert.Contains(t, userAgent, "Mozilla/5.0")

	require.Len(t, got, 6)
	assert.Equal(t, "2025-01-01", got[0].Date)
	assert.Equal(t, "Año nuevo", got[0].Description)
	assert.Equal(t, models.HolidayTypeInamovible, got[0].Type)
	assert.Equal(t, 2025, got[0].Year)
	assert.Equal(t, 1, got[0].Month)
	assert.Equal(t, models.HolidayTypeTourist, got[2].Type)
	assert.Equal(t, models.HolidayTypeTrasladable, got[3].Type)
	assert.Equal(t, models.HolidayTypeNonWorking, got[4].Type)
	assert.Equal(t, models.HolidayTypeOther, got[5].Type)
}

func TestWebsiteProviderTableFallback(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<table>
			<tr><th>Fecha</th><th>Feriado</th><th>Tipo</th></tr>
			<tr><td>01/01</td><td>Año nuevo</td><td>Inamovible</td></tr>
			<tr><td>xx/yy</td><td>Roto</td><td>Inamovible</td></tr>
			<tr><td>20/06</td><td>Belgrano</td></tr>
		</table>`))
	})

	got := NewWebsiteProvider(srv.URL, srv.Client()).GetHolidays(context.Background(), 2024)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, "Inamovible", got[0].Type)
}

func TestAPIProvider(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/feriados/2025", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"fecha": "2025-01-01", "tipo": "inamovible", "nombre": "Año nuevo"},
			{"fecha": "2025-05-02", "tipo": "puente", "nombre": "Puente turístico"},
			{"fecha": "2025-04-17", "tipo": "nolaborable", "nombre": "Jueves Santo"},
			{"fecha": "2025-06-16", "tipo": "trasladable", "nombre": "Güemes"},
			{"fecha": "2025-12-08", "tipo": "religioso", "nombre": "Inmaculada"},
			{"fecha": "2024-12-25", "tipo": "inamovible", "nombre": "Navidad"},
			{"fecha": "25/12/2025", "tipo": "inamovible", "nombre": "Navidad"},
			{"fecha": "2025-07-09", "tipo": "inamovible"},
			{"fecha": 20250101},
			"garbage"
		]`))
	})

	got := NewAPIProvider(srv.URL+"/v1/feriados/{year}", srv.Client()).GetHolidays(context.Background(), 2025)

	require.Len(t, got, 5)
	assert.Equal(t, models.HolidayTypeInamovible, got[0].Type)
	assert.Equal(t, models.HolidayTypeTourist, got[1].Type)
	assert.Equal(t, models.HolidayTypeNonWorking, got[2].Type)
	assert.Equal(t, models.HolidayTypeTrasladable, got[3].Type)
	assert.Equal(t, models.HolidayTypeOther, got[4].Type)
}

func TestProvidersDegradeToEmpty(t *testing.T) {
	failing := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	badJSON := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"`))
	})
	slow := serve(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	// nothing listens on a closed server
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	shortClient := &http.Client{Timeout: 50 * time.Millisecond}

	providers := map[string]Provider{
		"website 503":     NewWebsiteProvider(failing.URL, nil),
		"api 503":         NewAPIProvider(failing.URL, nil),
		"api bad json":    NewAPIProvider(badJSON.URL, nil),
		"website timeout": NewWebsiteProvider(slow.URL, shortClient),
		"api timeout":     NewAPIProvider(slow.URL, shortClient),
		"website refused": NewWebsiteProvider(closedURL, nil),
		"api refused":     NewAPIProvider(closedURL, nil),
		"bad url":         NewAPIProvider("://nope", nil),
		"missing file":    NewFileProvider(filepath.Join(t.TempDir(), "none-{year}.json")),
	}

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			var got []models.Holiday
			require.NotPanics(t, func() { got = p.GetHolidays(context.Background(), 2025) })
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestWebsiteProviderEmptyPage(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Mantenimiento</p></body></html>`))
	})

	got := NewWebsiteProvider(srv.URL, nil).GetHolidays(context.Background(), 2025)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025.json"), []byte(`{
		"year": 2025,
		"months": [{"month": 1, "days": "1,2+,3*"}]
	}`), 0o644))

	p := NewFileProvider(filepath.Join(dir, "{year}.json"))
	got := p.GetHolidays(context.Background(), 2025)

	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-01", got[0].Date)
	assert.Equal(t, models.HolidayTypeNonWorking, got[0].Type)
	assert.Equal(t, models.HolidayTypeTrasladable, got[1].Type)

	// a calendar for a different year is ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixed.json"), []byte(`{"year": 2024, "months": []}`), 0o644))
	assert.Empty(t, NewFileProvider(filepath.Join(dir, "fixed.json")).GetHolidays(context.Background(), 2025))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Settings{Provider: "argentina_website", BaseURL: DefaultWebsiteURL})
	require.NoError(t, err)
	assert.IsType(t, &WebsiteProvider{}, p)

	p, err = NewProvider(Settings{Provider: ProviderAPI, APIURL: "https://api.argentinadatos.com/v1/feriados/{year}"})
	require.NoError(t, err)
	assert.IsType(t, &APIProvider{}, p)

	p, err = NewProvider(Settings{Provider: ProviderFile, File: "calendar.json"})
	require.NoError(t, err)
	assert.IsType(t, &FileProvider{}, p)

	_, err = NewProvider(Settings{Provider: ProviderWebsite})
	assert.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "HOLIDAYS_BASE_URL")

	_, err = NewProvider(Settings{Provider: ProviderAPI, BaseURL: DefaultWebsiteURL})
	assert.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "HOLIDAY_API_URL")

	_, err = NewProvider(Settings{Provider: ProviderFile})
	assert.ErrorIs(t, err, ErrMissingSetting)

	for _, name := range []string{"", "GOOGLE_CALENDAR"} {
		_, err = NewProvider(Settings{Provider: name, BaseURL: DefaultWebsiteURL, APIURL: "x"})
		assert.ErrorIs(t, err, ErrInvalidProvider, name)
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`[{date: '01/01/2025', label: 'A',},]`, `[{"date": "01/01/2025", "label": "A"}]`},
		{`['it\'s', 'say "hi"']`, `["it's", "say \"hi\""]`},
		{`[{"ok": true, n: null}]`, `[{"ok": true, "n": null}]`},
		{`[{label: 'a, b: c'}]`, `[{"label": "a, b: c"}]`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, repairJSON(tt.in), tt.in)
	}
}

func TestForYear(t *testing.T) {
	assert.Equal(t, "https://x/feriados-2026", forYear("https://x/feriados-{year}", 2026))
	assert.False(t, strings.Contains(forYear(DefaultWebsiteURL, 2025), "{year}"))
}
