package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"campo-listings/internal/apitest"
	"campo-listings/internal/models"
	"campo-listings/internal/validators"
	"campo-listings/pkg/apiclient"
	"campo-listings/pkg/auth"
	"campo-listings/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv        *apitest.Server
	store      *session.MemoryStore
	client     *apiclient.Client
	properties *PropertyService
	contacts   *ContactService
	auth       *AuthService
	dashboard  *DashboardService
}

func newFixture(t *testing.T, opts ...apitest.Option) *fixture {
	t.Helper()
	srv := apitest.New(t, opts...)
	store := session.NewMemoryStore()
	client := apiclient.New(srv.APIURL(), store)
	return &fixture{
		srv:        srv,
		store:      store,
		client:     client,
		properties: NewPropertyService(client, nil),
		contacts:   NewContactService(client, nil),
		auth:       NewAuthService(client, store, nil),
		dashboard:  NewDashboardService(client),
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.auth.Login(context.Background(), apitest.AdminEmail, apitest.AdminPassword)
	require.NoError(t, err)
}

func sampleProperty() *models.Property {
	return &models.Property{
		Title:        "Campo con vertiente",
		Description:  "Campo plano con casa patronal",
		Operation:    models.OperationSale,
		PropertyType: "campo",
		Region:       "Los Ríos",
		Commune:      "Panguipulli",
		Hectares:     48.5,
		Price:        12000,
		Currency:     models.CurrencyUF,
		WaterRights:  true,
	}
}

func TestLoginStoresTokenAndMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Me(ctx)
	assert.ErrorIs(t, err, auth.ErrNoToken)

	resp, err := f.auth.Login(ctx, apitest.AdminEmail, apitest.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, resp.Token, f.store.Get(ctx))
	assert.Empty(t, f.srv.LastRequest().Header.Get("Authorization"))

	user, err := f.auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, apitest.AdminUser, *user)
	assert.Equal(t, "Bearer "+resp.Token, f.srv.LastRequest().Header.Get("Authorization"))

	claims, err := f.auth.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, apitest.AdminEmail, claims.Email)

	f.auth.Logout(ctx)
	assert.Empty(t, f.store.Get(ctx))
	_, err = f.auth.Session(ctx)
	assert.ErrorIs(t, err, auth.ErrNoToken)
}

func TestLoginRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Set(ctx, "previous")

	_, err := f.auth.Login(ctx, apitest.AdminEmail, "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "credenciales inválidas", err.Error())
	// a 401 always resets the session
	assert.Empty(t, f.store.Get(ctx))

	_, err = f.auth.Login(ctx, "not-an-email", "x")
	var verr *validators.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPropertyCRUD(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	created, err := f.properties.Create(ctx, sampleProperty())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusAvailable, created.Status)
	assert.NotNil(t, created.CreatedAt)

	got, err := f.properties.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campo con vertiente", got.Title)

	got.Price = 11500
	got.Status = models.StatusReserved
	updated, err := f.properties.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, 11500.0, updated.Price)
	assert.Equal(t, models.StatusReserved, updated.Status)

	withImages, err := f.properties.UploadImages(ctx, created.ID, []ImageUpload{
		{Filename: "frente.jpg", Body: strings.NewReader("a")},
		{Filename: "estero.png", Body: strings.NewReader("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.campos.test/" + created.ID + "/frente.jpg",
		"https://cdn.campos.test/" + created.ID + "/estero.png",
	}, withImages.Images)
	assert.True(t, strings.HasPrefix(f.srv.LastRequest().Header.Get("Content-Type"), "multipart/form-data"))

	require.NoError(t, f.properties.Delete(ctx, created.ID))
	_, err = f.properties.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiclient.StatusCode(err))
	assert.Equal(t, "property not found", err.Error())
}

func TestCreateValidatesBeforeSending(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	before := len(f.srv.Requests())

	p := sampleProperty()
	p.Title = ""
	_, err := f.properties.Create(context.Background(), p)
	var verr *validators.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, f.srv.Requests(), before)

	_, err = f.properties.Update(context.Background(), sampleProperty())
	require.ErrorAs(t, err, &verr)
}

func TestAdminCallWithoutSessionIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	var expired int
	f.client.OnAuthExpired(func(context.Context, *http.Response) { expired++ })

	_, err := f.properties.Create(context.Background(), sampleProperty())
	assert.True(t, apiclient.IsUnauthorized(err))
	assert.Equal(t, 1, expired)
}

func TestExpiredSessionResets(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	f.srv.ExpireTokens()

	_, err := f.dashboard.Stats(ctx)
	assert.True(t, apiclient.IsUnauthorized(err))
	assert.Empty(t, f.store.Get(ctx))
}

func TestListIsPublicAndFiltered(t *testing.T) {
	f := newFixture(t, apitest.WithProperties(
		models.Property{Title: "Parcela Lago Ranco", Region: "Los Ríos", PropertyType: "parcela", Price: 200, Hectares: 1, Featured: true},
		models.Property{Title: "Fundo Cauquenes", Region: "Maule", PropertyType: "fundo", Price: 5000, Hectares: 300},
		models.Property{Title: "Chacra Pirque", Region: "Metropolitana", PropertyType: "chacra", Price: 800, Hectares: 2, Featured: true},
	))
	ctx := context.Background()
	f.store.Set(ctx, "should-not-be-sent")

	page, err := f.properties.List(ctx, models.PropertyFilter{
		Regions: []string{"Los Ríos", "Metropolitana"},
		Sort:    "price",
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Parcela Lago Ranco", page.Data[0].Title)
	assert.Equal(t, int64(2), page.Meta.Total)

	last := f.srv.LastRequest()
	assert.Empty(t, last.Header.Get("Authorization"))
	assert.Equal(t, "region=Los+R%C3%ADos&region=Metropolitana&limit=10&sort=price", last.Query)

	featured, err := f.properties.Featured(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, featured, 2)
	assert.Equal(t, "featured=true&limit=6", f.srv.LastRequest().Query)
}

func TestListRejectsInvalidFilter(t *testing.T) {
	f := newFixture(t)
	_, err := f.properties.List(context.Background(), models.PropertyFilter{Limit: 1000})
	var verr *validators.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, f.srv.Requests())
}

func TestContactAndListingRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ack, err := f.contacts.Submit(ctx, &models.ContactRequest{
		Name:       "Camila",
		Email:      "camila@correo.cl",
		Message:    "¿Tiene derechos de agua inscritos?",
		PropertyID: "p3",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", ack.ID)
	require.Len(t, f.srv.Contacts(), 1)
	assert.Equal(t, "p3", f.srv.Contacts()[0].PropertyID)

	ack, err = f.contacts.SubmitListing(ctx, &models.ListingRequest{
		OwnerName: "Luis Araya",
		Email:     "luis@correo.cl",
		Phone:     "+56 9 1111 2222",
		Region:    "Biobío",
		Commune:   "Yumbel",
		Hectares:  25,
		Operation: models.OperationSale,
	})
	require.NoError(t, err)
	assert.Equal(t, "l1", ack.ID)

	_, err = f.contacts.Submit(ctx, &models.ContactRequest{Name: "X"})
	var verr *validators.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, f.srv.Contacts(), 1)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t, apitest.WithProperties(
		models.Property{Title: "Uno", Featured: true},
		models.Property{Title: "Dos", Status: models.StatusSold},
	))
	f.login(t)

	stats, err := f.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProperties)
	assert.Equal(t, int64(1), stats.FeaturedProperties)
	assert.Equal(t, map[string]int64{"disponible": 1, "vendido": 1}, stats.ByStatus)
}

func TestServerErrorMessage(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(http.MethodGet, "/api/properties/p1", http.StatusInternalServerError, "application/json", `{"message":"boom"}`)

	_, err := f.properties.Get(context.Background(), "p1")
	assert.EqualError(t, err, "boom")
}
