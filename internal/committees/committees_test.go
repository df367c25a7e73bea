package committees

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/members"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/testdb"
	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

func seed(t *testing.T) (*Module, *gorm.DB, uuid.UUID) {
	t.Helper()
	d := testdb.Open(t, &members.Member{})
	m, err := Init(d, utils.ModuleDeps{})
	require.NoError(t, err)

	ids := map[string]uuid.UUID{}
	for _, name := range []string{"Zeny Abad", "Ángel Bautista", "Carlos Reyes", "Maria Santos"} {
		mem := members.Member{Name: name}
		require.NoError(t, d.Create(&mem).Error)
		ids[name] = mem.ID
	}

	finance := Committee{
		Name:             "Finance",
		Description:      "Budget oversight",
		Responsibilities: datatypes.NewJSONSlice([]string{"Annual budget review"}),
		CommitteeMembers: []CommitteeMember{
			{MemberID: ids["Zeny Abad"], Role: RoleThirdMember},
			{MemberID: ids["Maria Santos"], Role: RoleViceChairman},
			{MemberID: ids["Carlos Reyes"], Role: RoleFirstMember},
			{MemberID: ids["Ángel Bautista"], Role: RoleSecondMember},
			{MemberID: ids["Zeny Abad"], Role: RoleChairman},
		},
	}
	require.NoError(t, d.Create(&finance).Error)
	require.NoError(t, d.Create(&Committee{Name: "Environment", Description: "Flood control and parks"}).Error)
	return m, d, finance.ID
}

func seatOrder(c Committee) []string {
	var out []string
	for _, s := range c.CommitteeMembers {
		out = append(out, s.Role+":"+memberName(s))
	}
	return out
}

func TestListSortsSeats(t *testing.T) {
	m, _, _ := seed(t)
	page, err := m.Service.List(context.Background(), query.Request{})
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)

	env, fin := page.Records()[0], page.Records()[1]
	assert.Equal(t, "Environment", env.Name)
	assert.Empty(t, env.CommitteeMembers)
	assert.Equal(t, []string{
		"Chairman:Zeny Abad",
		"Vice Chairman:Maria Santos",
		"Second Member:Ángel Bautista",
		"First Member:Carlos Reyes",
		"Third Member:Zeny Abad",
	}, seatOrder(fin))
	assert.Equal(t, []string{"Annual budget review"}, []string(fin.Responsibilities))
}

func TestSortMembersNilMember(t *testing.T) {
	s := NewService(testdb.Open(t))
	seats := []CommitteeMember{
		{Role: RoleFirstMember, Member: &MemberSummary{Name: "Bea"}},
		{Role: RoleSecondMember},
		{Role: RoleViceChairman, Member: &MemberSummary{Name: "Al"}},
	}
	s.SortMembers(seats)
	assert.Equal(t, RoleViceChairman, seats[0].Role)
	assert.Nil(t, seats[1].Member)
	assert.Equal(t, "Bea", seats[2].Member.Name)
}

func TestSearchCommittees(t *testing.T) {
	m, _, _ := seed(t)
	page, err := m.Service.List(context.Background(), query.Request{Search: "flood"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	h, ok := page.Rows[0].(query.Highlighted[Committee])
	require.True(t, ok)
	assert.Equal(t, "<mark>Flood</mark> control and parks", h.Fields["description"])
}

func TestGetRoute(t *testing.T) {
	m, _, id := seed(t)
	r := chi.NewRouter()
	r.Mount("/committees", m.SetupRoutes())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/committees/" + id.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c Committee
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	require.Len(t, c.CommitteeMembers, 5)
	assert.Equal(t, RoleChairman, c.CommitteeMembers[0].Role)
	require.NotNil(t, c.CommitteeMembers[0].Member)
	assert.Equal(t, "Zeny Abad", c.CommitteeMembers[0].Member.Name)

	resp2, err := http.Get(srv.URL + "/committees/" + uuid.NewString())
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
