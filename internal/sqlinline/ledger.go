package sqlinline

const QListPledges = `--sql c7150d58-7b6d-424c-852d-5bd9c7986422
select id::text, name, amount_per_km::float8, coalesce(country, ''), created_at
from pledges_per_km
order by created_at desc;
`

const QInsertPledge = `--sql 3f30b37f-2853-49a3-97d9-1f2fadeafb71
insert into pledges_per_km(id, name, amount_per_km, country, created_at)
values (gen_random_uuid(), $1::text, $2::numeric, nullif($3::text, ''), now())
returning id::text, created_at;
`

const QDeletePledge = `--sql fd231775-8c44-4cbd-b61f-7ea201c2e0ca
delete from pledges_per_km
where id = $1::uuid;
`

const QListDonations = `--sql d4786a13-30ee-4d4c-9341-1b1708fd3f3a
select id::text, name, amount::float8, coalesce(country, ''), created_at
from donations_fixed
order by created_at desc;
`

const QInsertDonation = `--sql 937dafaf-8164-474e-9f1a-dfcfb0f553c8
insert into donations_fixed(id, name, amount, country, created_at)
values (gen_random_uuid(), $1::text, $2::numeric, nullif($3::text, ''), now())
returning id::text, created_at;
`

const QDeleteDonation = `--sql 89056117-a5af-40be-9a81-eb2d17691c9f
delete from donations_fixed
where id = $1::uuid;
`
