package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"clientreg/internal/client/handler/mocks"
	"clientreg/internal/client/models"
	dErrors "clientreg/pkg/domain-errors"
	"clientreg/pkg/platform/httputil"
	"clientreg/pkg/requestcontext"
	"clientreg/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, nil).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) client() *models.Client {
	return &models.Client{
		ID:    uuid.MustParse("0b8e5f4a-7c1d-4e2b-8a3f-9d6c5b4a3e21"),
		Name:  "João",
		Email: "joao@example.com",
		Phone: "1199887766",
		CEP:   "01001000",
		Address: models.Address{
			CEP:          "01001000",
			Street:       "Praça da Sé",
			Neighborhood: "Sé",
			City:         "São Paulo",
			State:        "SP",
		},
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func (s *HandlerSuite) TestRegister() {
	s.Run("created", func() {
		s.service.EXPECT().Register(gomock.Any(), &models.RegisterRequest{
			Name: "João", Email: "joao@example.com", Phone: "1199887766", CEP: "01001000",
		}).Return(s.client(), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/clients", map[string]string{
			"name": "João", "email": "joao@example.com", "phone": "1199887766", "cep": "01001000",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[ClientResponse](s.T(), rr)
		s.Equal("0b8e5f4a-7c1d-4e2b-8a3f-9d6c5b4a3e21", resp.ID)
		s.Equal("Praça da Sé", resp.Address.Street)
		s.Equal("SP", resp.Address.State)
	})

	s.Run("request context reaches the service", func() {
		pinned := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
		s.service.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ *models.RegisterRequest) (*models.Client, error) {
				s.Equal("req-123", requestcontext.RequestID(ctx))
				s.Equal(pinned, requestcontext.Now(ctx))
				return s.client(), nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/clients", map[string]string{
			"name": "João", "email": "joao@example.com", "phone": "1199887766", "cep": "01001000",
		})
		req = testutil.WithTime(testutil.WithRequestID(req, "req-123"), pinned)
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusCreated)
	})

	s.Run("malformed body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/v1/clients", `{"name":`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, httputil.APICodeValidation)
	})

	s.Run("empty body", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/v1/clients", ``)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, httputil.APICodeValidation)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", dErrors.New(dErrors.CodeValidation, "invalid client data: missing name"), http.StatusBadRequest, httputil.APICodeValidation},
		{"duplicate", dErrors.New(dErrors.CodeDuplicateClient, "exists"), http.StatusBadRequest, httputil.APICodeDuplicateClient},
		{"address not found", dErrors.New(dErrors.CodeAddressNotFound, "no address"), http.StatusBadRequest, httputil.APICodeAddressNotFound},
		{"internal", dErrors.New(dErrors.CodeInternal, "db password leaked"), http.StatusInternalServerError, httputil.APICodeInternal},
	}
	for _, tc := range errorCases {
		s.Run(tc.name, func() {
			s.service.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/clients", map[string]string{"name": "x"})
			rr := testutil.DoRequest(s.router, req)

			testutil.AssertStatus(s.T(), rr, tc.status)
			body := testutil.UnmarshalErrorResponse(s.T(), rr)
			s.Equal(tc.code, body.Code)
			s.NotContains(body.Message, "password")
		})
	}
}

func (s *HandlerSuite) TestList() {
	s.Run("defaults", func() {
		s.service.EXPECT().ListClients(gomock.Any(), models.Page{Number: 1, Limit: 10}).
			Return([]*models.Client{s.client()}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/clients"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[[]ClientResponse](s.T(), rr)
		s.Len(*resp, 1)
	})

	s.Run("explicit and invalid paging values", func() {
		s.service.EXPECT().ListClients(gomock.Any(), models.Page{Number: 3, Limit: 10}).
			Return(nil, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/clients?page=3&limit=abc"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`[]`, rr.Body.String())
	})
}

func (s *HandlerSuite) TestGet() {
	s.Run("found", func() {
		c := s.client()
		s.service.EXPECT().GetClient(gomock.Any(), c.ID).Return(c, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/clients/"+c.ID.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal("João", testutil.UnmarshalResponse[ClientResponse](s.T(), rr).Name)
	})

	s.Run("not found", func() {
		s.service.EXPECT().GetClient(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "client not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/clients/"+uuid.NewString()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, httputil.APICodeClientNotFound)
	})

	s.Run("malformed id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/clients/not-a-uuid"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, httputil.APICodeValidation)
	})
}

func (s *HandlerSuite) TestDelete() {
	s.Run("deleted", func() {
		id := uuid.New()
		s.service.EXPECT().DeleteClient(gomock.Any(), id).Return(nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/api/v1/clients/"+id.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.NotEmpty(testutil.UnmarshalResponse[MessageResponse](s.T(), rr).Message)
	})

	s.Run("missing", func() {
		s.service.EXPECT().DeleteClient(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeNotFound, "client not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/api/v1/clients/"+uuid.NewString()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, httputil.APICodeClientNotFound)
	})
}

func (s *HandlerSuite) TestSearch() {
	s.Run("passes name and paging", func() {
		s.service.EXPECT().SearchClientsByName(gomock.Any(), "maria", models.Page{Number: 2, Limit: 5}).
			Return([]*models.Client{}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/search?name=maria&page=2&limit=5"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`[]`, rr.Body.String())
	})

	s.Run("missing name", func() {
		s.service.EXPECT().SearchClientsByName(gomock.Any(), "", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "name query parameter is required"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/search"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, httputil.APICodeValidation)
	})
}

func (s *HandlerSuite) TestGetAddress() {
	s.Run("found", func() {
		addr := s.client().Address
		s.service.EXPECT().GetAddress(gomock.Any(), "01001000").Return(&addr, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/addresses/01001000"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal("São Paulo", testutil.UnmarshalResponse[AddressResponse](s.T(), rr).City)
	})

	s.Run("unknown", func() {
		s.service.EXPECT().GetAddress(gomock.Any(), "99999999").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "address not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/v1/addresses/99999999"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, httputil.APICodeAddressNotFound)
	})
}
