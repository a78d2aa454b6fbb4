package taxengine

import "github.com/naijatax/backend/internal/model"

const (
	// RentReliefCap is the statutory ceiling on rent relief.
	RentReliefCap = model.Kobo(500_000) * model.KoboPerNaira
	// RentReliefRateBps is the share of rent paid that may be relieved.
	RentReliefRateBps = 2000
)

// RentRelief returns min(₦500,000, 20% of eligible rent paid) using keyword
// eligibility.
func RentRelief(txs []model.Transaction) model.Kobo {
	return rentReliefDetail(txs, RentPolicyKeyword).FinalRelief
}

// RentReliefDetail returns the relief together with its working.
func RentReliefDetail(txs []model.Transaction, policy RentPolicy) model.RentReliefDetail {
	return rentReliefDetail(txs, policy)
}

func rentReliefDetail(txs []model.Transaction, policy RentPolicy) model.RentReliefDetail {
	var rentPaid model.Kobo
	for i := range txs {
		if classify(&txs[i], policy) == classRentRelief {
			rentPaid += txs[i].Amount
		}
	}
	return reliefFor(rentPaid)
}

func reliefFor(rentPaid model.Kobo) model.RentReliefDetail {
	share := applyRate(rentPaid, RentReliefRateBps)
	final := share
	if final > RentReliefCap {
		final = RentReliefCap
	}
	return model.RentReliefDetail{
		TotalRentPaid: rentPaid,
		TwentyPercent: share,
		Cap:           RentReliefCap,
		FinalRelief:   final,
	}
}
