package routehandlers

import (
	"net/http"

	"github.com/Madmax-op/FoodShare/forms"
	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/views"
	"github.com/Madmax-op/FoodShare/webutil"
)

type RegisterHandler struct {
	Forms     *forms.Controller
	Views     *views.Renderer
	CanLocate bool
}

func NewRegisterHandler(fc *forms.Controller, renderer *views.Renderer, canLocate bool) *RegisterHandler {
	return &RegisterHandler{Forms: fc, Views: renderer, CanLocate: canLocate}
}

func (h *RegisterHandler) page(s *models.Session, kind models.RegistrantKind) views.RegisterPage {
	return views.RegisterPage{
		Page:              basePage(s, "Register", views.NavRegister),
		Tab:               kind,
		DonorTypes:        views.DonorTypes,
		OrganizationTypes: views.OrganizationTypes,
		CanLocate:         h.CanLocate,
	}
}

func (h *RegisterHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	if out, ok := forms.GuardAuthPage(s); ok {
		webutil.Redirect(w, r, out.RedirectTo)
		return nil
	}
	kind := models.ParseRegistrantKind(r.URL.Query().Get("tab"))
	return h.Views.Render(w, http.StatusOK, views.PageRegister, h.page(s, kind))
}

func (h *RegisterHandler) HandleRegisterDonor(w http.ResponseWriter, r *http.Request) error {
	return h.submit(w, r, models.RegistrantDonor)
}

func (h *RegisterHandler) HandleRegisterNGO(w http.ResponseWriter, r *http.Request) error {
	return h.submit(w, r, models.RegistrantNGO)
}

func (h *RegisterHandler) submit(w http.ResponseWriter, r *http.Request, kind models.RegistrantKind) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	if err := r.ParseForm(); err != nil {
		return webutil.ErrBadRequest("Invalid form submission")
	}

	var out forms.Outcome
	if kind == models.RegistrantNGO {
		out = h.Forms.RegisterNGO(r.Context(), r.PostForm)
	} else {
		out = h.Forms.RegisterDonor(r.Context(), r.PostForm)
	}
	return h.render(w, s, kind, out)
}

// HandleLocate fills the coordinates of the submitted form from its city.
func (h *RegisterHandler) HandleLocate(w http.ResponseWriter, r *http.Request) error {
	s, err := requestSession(r)
	if err != nil {
		return err
	}
	if err := r.ParseForm(); err != nil {
		return webutil.ErrBadRequest("Invalid form submission")
	}

	kind := models.ParseRegistrantKind(r.PostForm.Get("kind"))
	fields := forms.DonorFields()
	if kind == models.RegistrantNGO {
		fields = forms.NGOFields()
	}
	return h.render(w, s, kind, h.Forms.Locate(r.Context(), r.PostForm, fields...))
}

func (h *RegisterHandler) render(w http.ResponseWriter, s *models.Session, kind models.RegistrantKind, out forms.Outcome) error {
	page := h.page(s, kind)
	page.Apply(out)
	if kind == models.RegistrantNGO {
		page.NGO = views.StateFrom(out)
	} else {
		page.Donor = views.StateFrom(out)
	}
	return h.Views.Render(w, statusFor(out), views.PageRegister, page)
}
