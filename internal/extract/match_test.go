package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var services = []Candidate{
	{ID: "s1", Name: "Classic Haircut"},
	{ID: "s2", Name: "Beard Trim"},
	{ID: "s3", Name: "Hot Towel Shave"},
	{ID: "s4", Name: "Hair Coloring"},
	{ID: "s5", Name: "Father & Son Package"},
	{ID: "s6", Name: "Head Massage"},
	{ID: "s7", Name: "Senior Haircut"},
	{ID: "s8", Name: "Kids Haircut"},
}

var serviceKeywords = []Keyword{
	{Word: "senior", Target: "Senior Haircut"},
	{Word: "kid", Target: "Kids Haircut"},
	{Word: "trim", Target: "Beard Trim"},
	{Word: "shave", Target: "Hot Towel Shave"},
	{Word: "dye", Target: "Hair Coloring"},
	{Word: "cut", Target: "Classic Haircut"},
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantID   string
		wantKind MatchKind
		wantAmb  []string
	}{
		{name: "exact", message: "Beard Trim", wantID: "s2", wantKind: MatchExact},
		{name: "exact with punctuation", message: "beard trim!", wantID: "s2", wantKind: MatchExact},
		{name: "prefix of name", message: "hot tow", wantID: "s3", wantKind: MatchPrefix},
		{name: "text starts with name", message: "head massage please", wantID: "s6", wantKind: MatchPrefix},
		{name: "name inside text", message: "I want to book a classic haircut", wantID: "s1", wantKind: MatchSubstring},
		{name: "text inside name", message: "coloring", wantID: "s4", wantKind: MatchSubstring},
		{name: "ambiguous substring", message: "haircut", wantKind: MatchSubstring, wantAmb: []string{"s1", "s7", "s8"}},
		{name: "keyword trim", message: "just a quick trim", wantID: "s2", wantKind: MatchKeyword},
		{name: "keyword senior", message: "something for a senior", wantID: "s7", wantKind: MatchKeyword},
		{name: "keyword cut", message: "a hair cut", wantID: "s1", wantKind: MatchKeyword},
		{name: "token overlap", message: "the package for father and son", wantID: "s5", wantKind: MatchTokens},
		{name: "ambiguous tokens", message: "book me a haircut", wantKind: MatchTokens, wantAmb: []string{"s1", "s7", "s8"}},
		{name: "short text not substring", message: "ha", wantKind: MatchNone},
		{name: "nothing", message: "what do you have", wantKind: MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchName(tt.message, services, serviceKeywords)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantKind, got.Kind, got.Kind.String())
			var amb []string
			for _, c := range got.Ambiguous {
				amb = append(amb, c.ID)
			}
			assert.Equal(t, tt.wantAmb, amb)
		})
	}
}

func TestMatchNameBarbers(t *testing.T) {
	barbers := []Candidate{
		{ID: "b1", Name: "James Wilson"},
		{ID: "b2", Name: "Michael Thompson"},
		{ID: "b3", Name: "David Garcia"},
	}

	assert.Equal(t, "b1", MatchName("James Wilson", barbers, nil).ID)
	assert.Equal(t, "b2", MatchName("michael", barbers, nil).ID)
	assert.Equal(t, "b3", MatchName("I'll go with David please", barbers, nil).ID)
	assert.False(t, MatchName("anyone is fine", barbers, nil).Found())
}

func TestMatchNameKeywordTargetMissing(t *testing.T) {
	only := []Candidate{{ID: "s1", Name: "Classic Haircut"}}
	got := MatchName("a trim", only, serviceKeywords)
	assert.False(t, got.Found())
}

func TestChoose(t *testing.T) {
	options := services[:3]

	got, ok := Choose("the second one", options)
	require.True(t, ok)
	assert.Equal(t, "s2", got.ID)

	got, ok = Choose("#3", options)
	require.True(t, ok)
	assert.Equal(t, "s3", got.ID)

	got, ok = Choose("the last", options)
	require.True(t, ok)
	assert.Equal(t, "s3", got.ID)

	got, ok = Choose("classic", options)
	require.True(t, ok)
	assert.Equal(t, "s1", got.ID)

	_, ok = Choose("fifth", options)
	assert.False(t, ok)
}

func TestOther(t *testing.T) {
	pair := services[:2]

	got, ok := Other(pair, "s1")
	require.True(t, ok)
	assert.Equal(t, "s2", got.ID)

	_, ok = Other(pair, "s9")
	assert.False(t, ok)
	_, ok = Other(services[:3], "s1")
	assert.False(t, ok)
}

func TestAffirmativeNegative(t *testing.T) {
	assert.True(t, Affirmative("Yes please"))
	assert.True(t, Affirmative("sounds good"))
	assert.True(t, Affirmative("ok"))
	assert.False(t, Affirmative("no thanks"))
	assert.False(t, Affirmative("yesterday"))
	assert.True(t, Negative("No."))
	assert.True(t, Negative("nope"))
	assert.False(t, Negative("nothing else"))
}

func TestNegatedAffirmatives(t *testing.T) {
	cases := []struct {
		text        string
		affirmative bool
		negative    bool
		confirms    bool
	}{
		{"yes", true, false, true},
		{"Yes, that's correct", true, false, true},
		{"that's not correct", false, true, true},
		{"not sure, is he good?", false, true, false},
		{"that's not great", false, true, false},
		{"it isn't correct", false, true, true},
		{"never okay", false, true, false},
		{"no wait, yes", false, true, true},
		{"yes but don't book the beard", false, true, true},
		{"sounds good", true, false, false},
		{"not yet", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.affirmative, Affirmative(tc.text), "affirmative")
			assert.Equal(t, tc.negative, Negative(tc.text), "negative")
			assert.Equal(t, tc.confirms, Confirms(tc.text), "confirms")
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"cancellation", "policy"}, Tokens("What is your cancellation policy? Policy!"))
	assert.Empty(t, Tokens("is it ok"))
}
