package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/metrics"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	logBodyBytes   = 300
)

// Client talks to the clinic REST API that owns people and appointments.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.UpstreamMetrics
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.UpstreamMetrics) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.OrNop(logger).Named("clinicapi"),
		metrics:    m,
	}
}

func (c *Client) ListPeople(ctx context.Context) ([]schedule.Person, error) {
	body, err := c.do(ctx, "list_people", http.MethodGet, "/api/people", nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(body, "people", "persons")
	if err != nil {
		return nil, &NetworkError{Op: "list_people", Err: err}
	}
	people := make([]schedule.Person, 0, len(items))
	for _, o := range items {
		p := decodePerson(o)
		if p.ID == "" {
			c.logger.Warn("dropping person without id", zap.String("name", p.Name))
			continue
		}
		people = append(people, p)
	}
	return people, nil
}

func (c *Client) CreatePerson(ctx context.Context, p schedule.Person) (schedule.Person, error) {
	body, err := c.do(ctx, "create_person", http.MethodPost, "/api/people", newPersonPayload(p))
	if err != nil {
		return schedule.Person{}, err
	}
	return mergePerson(p, body), nil
}

func (c *Client) UpdatePerson(ctx context.Context, p schedule.Person) (schedule.Person, error) {
	if p.ID == "" {
		return schedule.Person{}, &schedule.FormatError{Field: "id", Reason: "required"}
	}
	body, err := c.do(ctx, "update_person", http.MethodPut, "/api/people/"+url.PathEscape(p.ID), newPersonPayload(p))
	if err != nil {
		return schedule.Person{}, err
	}
	return mergePerson(p, body), nil
}

func (c *Client) DeletePerson(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete_person", http.MethodDelete, "/api/people/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) ListAppointments(ctx context.Context) ([]schedule.Appointment, error) {
	body, err := c.do(ctx, "list_appointments", http.MethodGet, "/api/appointments", nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(body, "appointments")
	if err != nil {
		return nil, &NetworkError{Op: "list_appointments", Err: err}
	}
	appts := make([]schedule.Appointment, 0, len(items))
	for _, o := range items {
		appts = append(appts, decodeAppointment(o))
	}
	return appts, nil
}

// GetAppointment fetches by id. Some deployments answer 404 or an empty
// object for records that do exist in the list, so both fall back to a
// search of ListAppointments.
func (c *Client) GetAppointment(ctx context.Context, id string) (schedule.Appointment, error) {
	body, err := c.do(ctx, "get_appointment", http.MethodGet, "/api/appointments/"+url.PathEscape(id), nil)
	if err != nil {
		var netErr *NetworkError
		if !errors.As(err, &netErr) || netErr.Status != http.StatusNotFound {
			return schedule.Appointment{}, err
		}
	} else {
		o, decodeErr := decodeObject(body, "appointment")
		if decodeErr == nil && o != nil {
			a := decodeAppointment(o)
			if a.ID == "" {
				a.ID = id
			}
			return a, nil
		}
	}

	c.logger.Debug("appointment lookup falling back to list", zap.String("id", id))
	all, err := c.ListAppointments(ctx)
	if err != nil {
		return schedule.Appointment{}, err
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return schedule.Appointment{}, &NotFoundError{Resource: "appointment", ID: id}
}

func (c *Client) CreateAppointment(ctx context.Context, a schedule.Appointment) (schedule.Appointment, error) {
	body, err := c.do(ctx, "create_appointment", http.MethodPost, "/api/appointments", newAppointmentPayload(a))
	if err != nil {
		return schedule.Appointment{}, err
	}
	return mergeAppointment(a, body), nil
}

func (c *Client) UpdateAppointment(ctx context.Context, a schedule.Appointment) (schedule.Appointment, error) {
	if a.ID == "" {
		return schedule.Appointment{}, &schedule.FormatError{Field: "id", Reason: "required"}
	}
	body, err := c.do(ctx, "update_appointment", http.MethodPut, "/api/appointments/"+url.PathEscape(a.ID), newAppointmentPayload(a))
	if err != nil {
		return schedule.Appointment{}, err
	}
	return mergeAppointment(a, body), nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete_appointment", http.MethodDelete, "/api/appointments/"+url.PathEscape(id), nil)
	return err
}

// SaveAppointment creates when the appointment has no id and updates otherwise.
func (c *Client) SaveAppointment(ctx context.Context, a schedule.Appointment) (schedule.Appointment, error) {
	if a.ID == "" {
		return c.CreateAppointment(ctx, a)
	}
	return c.UpdateAppointment(ctx, a)
}

// Ping checks that the clinic API answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/api/people", nil)
	return err
}

// mergeAppointment prefers what the server echoed back and keeps the
// request's values for anything it left out.
func mergeAppointment(sent schedule.Appointment, body []byte) schedule.Appointment {
	sent.Urgency = sent.Urgency.Normalize()
	o, err := decodeObject(body, "appointment")
	if err != nil || o == nil {
		return sent
	}
	got := decodeAppointment(o)
	if got.ID != "" {
		sent.ID = got.ID
	}
	if _, ok := o.pick(appointmentKeys.room); ok && got.RoomNumber != 0 {
		sent.RoomNumber = got.RoomNumber
	}
	if got.DateTime != "" {
		sent.DateTime = got.DateTime
	}
	if got.PatientID != "" {
		sent.PatientID = got.PatientID
	}
	if got.DoctorID != "" {
		sent.DoctorID = got.DoctorID
	}
	if _, ok := o.pick(appointmentKeys.urgency); ok {
		sent.Urgency = got.Urgency
	}
	if got.Notes != "" {
		sent.Notes = got.Notes
	}
	return sent
}

func mergePerson(sent schedule.Person, body []byte) schedule.Person {
	o, err := decodeObject(body, "person")
	if err != nil || o == nil {
		return sent
	}
	got := decodePerson(o)
	if got.ID != "" {
		sent.ID = got.ID
	}
	if got.Name != "" {
		sent.Name = got.Name
	}
	if got.Status != "" {
		sent.Status = got.Status
	}
	if got.Email != "" {
		sent.Email = got.Email
	}
	if got.PhoneNumber != "" {
		sent.PhoneNumber = got.PhoneNumber
	}
	if got.Address != "" {
		sent.Address = got.Address
	}
	return sent
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", op, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(op, 0, time.Since(start))
		c.logger.Warn("clinic api unreachable", zap.String("op", op), zap.Error(err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(op, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		logged := msg
		if len(logged) > logBodyBytes {
			logged = logged[:logBodyBytes]
		}
		c.logger.Warn("clinic api non-2xx response",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("path", path),
			zap.String("body", logged),
		)
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Body: msg}
	}
	return respBody, nil
}
