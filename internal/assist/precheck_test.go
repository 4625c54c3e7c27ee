package assist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrecheck(t *testing.T) {
	base := Request{
		A:      "良い人生を送る",
		B:      "早く帰りたい",
		C:      "認められたい",
		D:      "定時で退社する",
		Dprime: "残業する",
	}

	tests := []struct {
		name   string
		mutate func(r *Request)
		want   Comments
	}{
		{
			name:   "well formed cloud stays silent",
			mutate: func(*Request) {},
			want:   EmptyComments(),
		},
		{
			name:   "desire written as an action",
			mutate: func(r *Request) { r.B = "毎日残業する" },
			want: Comments{
				"1": {{Severity: SeverityWarn, Text: "Bが行動の形です。満たしたい状態で書けますか"}},
				"2": {}, "3": {}, "4": {},
			},
		},
		{
			name:   "sweeping desire",
			mutate: func(r *Request) { r.C = "みんなに認められたい" },
			want: Comments{
				"1": {}, "2": {},
				"3": {{Severity: SeverityWarn, Text: "Cの「みんな」は範囲が広すぎます"}},
				"4": {},
			},
		},
		{
			name:   "abstract desire",
			mutate: func(r *Request) { r.C = "品質の改善" },
			want: Comments{
				"1": {}, "2": {},
				"3": {{Severity: SeverityWarn, Text: "Cの「改善」をもう少し具体的にできますか"}},
				"4": {},
			},
		},
		{
			name:   "B and C as a negation pair",
			mutate: func(r *Request) { r.B, r.C = "転職する", "転職しない" },
			want: Comments{
				"1": {{Severity: SeverityWarn, Text: "Bが行動の形です。満たしたい状態で書けますか"}},
				"2": {},
				"3": {
					{Severity: SeverityCrit, Text: "BとCが同じ行動の「する/しない」になっています"},
					{Severity: SeverityWarn, Text: "Cが行動の形です。満たしたい状態で書けますか"},
				},
				"4": {},
			},
		},
		{
			name:   "D and D' are the same action",
			mutate: func(r *Request) { r.D = "残業する" },
			want: Comments{
				"1": {}, "2": {}, "3": {},
				"4": {{Severity: SeverityWarn, Text: "DとD'が同じ行動で、対立になっていません"}},
			},
		},
		{
			name:   "D and D' as a negation pair are a conflict",
			mutate: func(r *Request) { r.D = "残業しない" },
			want:   EmptyComments(),
		},
		{
			name:   "same wording with an obvious conflict marker",
			mutate: func(r *Request) { r.D, r.Dprime = "先に残業する", "先に残業する" },
			want:   EmptyComments(),
		},
		{
			name:   "action written as a state",
			mutate: func(r *Request) { r.D = "評判を高める" },
			want: Comments{
				"1": {},
				"2": {{Severity: SeverityWarn, Text: "Dが状態の形です。具体的な行動で書けますか"}},
				"3": {}, "4": {},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			if diff := cmp.Diff(tt.want, Precheck(req)); diff != "" {
				t.Errorf("Precheck() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
