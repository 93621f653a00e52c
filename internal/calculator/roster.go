package calculator

import (
	"sort"

	"bigstep/internal/model"
)

// Roster 한 번의 정산 실행이 소유하는 기사별 누적 레코드
// 같은 이름으로 들어온 값은 항상 더한다.
type Roster struct {
	workers map[string]*model.WorkerRecord
}

// NewRoster 빈 명부
func NewRoster() *Roster {
	return &Roster{workers: make(map[string]*model.WorkerRecord)}
}

// GetOrCreate 이름에 해당하는 레코드, 없으면 생성
func (r *Roster) GetOrCreate(name string) *model.WorkerRecord {
	if w, ok := r.workers[name]; ok {
		return w
	}
	w := &model.WorkerRecord{Name: name}
	r.workers[name] = w
	return w
}

// Add 행 레코드를 해당 플랫폼 누적값에 더한다.
// 알 수 없는 플랫폼이면 기사도 만들지 않는다.
func (r *Roster) Add(p model.Platform, rec model.RowRecord) {
	if rec.Name == "" || !p.Known() {
		return
	}
	r.GetOrCreate(rec.Name).Totals(p).Add(rec.Values)
}

// AddAll 문서 하나의 레코드 전체
func (r *Roster) AddAll(p model.Platform, recs []model.RowRecord) {
	for _, rec := range recs {
		r.Add(p, rec)
	}
}

// Len 기사 수
func (r *Roster) Len() int {
	return len(r.workers)
}

// CountWith 해당 플랫폼 기여가 있는 기사 수
func (r *Roster) CountWith(p model.Platform) int {
	n := 0
	for _, w := range r.workers {
		if t := w.Totals(p); t != nil && t.Rows > 0 {
			n++
		}
	}
	return n
}

// Workers 이름순 정렬된 레코드
func (r *Roster) Workers() []*model.WorkerRecord {
	out := make([]*model.WorkerRecord, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
